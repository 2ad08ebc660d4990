package config

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and endpoints
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/genieblog.db"},
		{Key: "output_dir", Default: "", Comment: "Where research artifacts are written; empty means data_dir/output"},
		{Key: "api_url", Default: "http://127.0.0.1:3000", Comment: "Base URL of the genieblog server used by client commands"},
		{Key: "http_addr", Default: ":3000", Comment: "HTTP listen address for genieblog serve"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required on /api when set (server and client)"},

		{Key: "research.gaps_url", Default: "http://127.0.0.1:8000/researchgap", Comment: "Research gap service (GET ?query=topic)"},
		{Key: "research.questions_url", Default: "https://spm-production.up.railway.app/generateQuestions", Comment: "Question generator (POST ?topic=topic)"},
		{Key: "research.methodology_url", Default: "http://127.0.0.1:5000/api/analyze-questions", Comment: "Methodology analyser (POST)"},
		{Key: "research.timeout", Default: "20s", Comment: "Timeout for the gap and question services"},
		{Key: "research.methodology_timeout", Default: "60s", Comment: "Timeout for the methodology service"},

		{Key: "secrets.keyring", Default: true, Comment: "Read empty gemini.api_key and auth.token from the system keyring"},
		{Key: "gemini.api_key", Default: "", Comment: "Gemini API key; GEMINI_API_KEY is used when empty. Without a key posts use the basic template"},
		{Key: "gemini.model", Default: "gemini-2.5-flash", Comment: "Gemini model used to write posts"},

		{Key: "progress.step_delay", Default: "500ms", Comment: "Pause between the cosmetic progress steps"},
		{Key: "progress.reveal_delay", Default: "1s", Comment: "Pause before the finished post replaces the progress view"},

		{Key: "render.engine", Default: "preview", Comment: "HTML engine for exports: preview or commonmark"},
		{Key: "render.width", Default: 0, Comment: "Terminal wrap width for read; 0 uses the terminal size"},

		{Key: "tls.domains", Default: []string{}, Comment: "Serve HTTPS with ACME certificates for these domains"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.storage_dir", Default: "", Comment: "Certificate storage; empty uses the XDG cache dir"},
		{Key: "tls.challenge_addr", Default: ":80", Comment: "Listen address for ACME HTTP-01 challenges"},
		{Key: "tls.cert_file", Default: "", Comment: "PEM certificate for HTTPS without ACME"},
		{Key: "tls.key_file", Default: "", Comment: "PEM key for HTTPS without ACME"},
	}
}
