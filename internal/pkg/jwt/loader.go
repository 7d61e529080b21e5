// internal/pkg/jwt/loader.go
package jwt

type Config struct {
	Secret    string
	Issuer    string
	AdminRole string
}

// Build returns a verifier for the configured secret. An empty secret yields a
// verifier that rejects every token.
func Build(cfg Config) *Verifier {
	return NewVerifier(cfg.Secret, cfg.Issuer)
}
