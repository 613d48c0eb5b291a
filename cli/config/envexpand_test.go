package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("PESTO_T_SET", "real")
	t.Setenv("PESTO_T_EMPTY", "")
	t.Setenv("PESTO_T_A", "alice")
	t.Setenv("PESTO_T_B", "bob")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set", "token: ${PESTO_T_SET}", "token: real"},
		{"unset", "token: ${PESTO_T_UNSET_12345}", "token: "},
		{"default when unset", "key: ${PESTO_T_UNSET_12345:-pesto:runtimes}", "key: pesto:runtimes"},
		{"default when empty", "key: ${PESTO_T_EMPTY:-fallback}", "key: fallback"},
		{"default ignored when set", "key: ${PESTO_T_SET:-fallback}", "key: real"},
		{"several", "${PESTO_T_A}:${PESTO_T_B}", "alice:bob"},
		{"bare dollar untouched", "token: $PESTO_T_SET", "token: $PESTO_T_SET"},
		{"unterminated", "token: ${PESTO_T_SET", "token: ${PESTO_T_SET"},
		{"no refs", "no variables here", "no variables here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.in); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandEnv_ConfigDocument(t *testing.T) {
	t.Setenv("PESTO_TEST_TOKEN", "abc123")
	t.Setenv("PESTO_TEST_HOOK", "https://hooks.example.com/pesto")

	input := `token: ${PESTO_TEST_TOKEN}
notify:
  webhook_url: ${PESTO_TEST_HOOK}
  redis_channel: ${PESTO_TEST_CHANNEL:-pesto:executions}`

	want := `token: abc123
notify:
  webhook_url: https://hooks.example.com/pesto
  redis_channel: pesto:executions`

	if got := ExpandEnv(input); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
