package types

// Runtimes advertised by the public service at the time of writing. Use
// Client.ListRuntimes for the authoritative list.
const (
	LanguageBrainfuck = "Brainfuck"
	VersionBrainfuck  = "2.7.3"

	LanguageC = "C"
	VersionC  = "10.2.1"

	LanguageCPlusPlus = "C++"
	VersionCPlusPlus  = "10.2.1"

	LanguageCommonLisp = "Common Lisp"
	VersionCommonLisp  = "2.2.7"

	LanguageDotnet = ".NET"
	VersionDotnet  = "6.0.300"

	LanguageGo = "Go"
	VersionGo  = "1.18.3"

	LanguageJava = "Java"
	VersionJava  = "17"

	LanguageJavascript = "Javascript"
	VersionJavascript  = "16.15.0"

	LanguageJulia = "Julia"
	VersionJulia  = "1.7.3"

	LanguageLua = "Lua"
	VersionLua  = "5.4.4"

	LanguagePHP = "PHP"
	VersionPHP  = "8.1"

	LanguagePython = "Python"
	VersionPython  = "3.10.2"

	LanguageRuby = "Ruby"
	VersionRuby  = "3.1.2"

	LanguageSQLite = "SQLite3"
	VersionSQLite  = "3.34.1"

	LanguageV = "V"
	VersionV  = "0.3"
)
