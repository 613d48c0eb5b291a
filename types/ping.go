package types

// PingResult is the body of GET /api/ping.
type PingResult struct {
	Message string `json:"message"`
}

// UnmarshalJSON decodes a PingResult, requiring the message key.
func (p *PingResult) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data, "")
	if err != nil {
		return err
	}
	var res PingResult
	if err := f.decode("", "message", &res.Message); err != nil {
		return err
	}
	*p = res
	return nil
}
