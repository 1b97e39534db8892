package kraken

//
// Credential is an API key pair. The key identifies the account and the secret (base64, exactly as
// issued) authenticates it. Neither half is ever rendered by the fmt verbs.
//
type Credential struct {
	Key    string
	Secret string
}

func (o Credential) String() string {
	return "Credential{Key: [redacted], Secret: [redacted]}"
}

func (o Credential) GoString() string {
	return o.String()
}

//
// Validate reports a ConfigError if either half of the credential is unusable.
//
func (o Credential) Validate() error {
	if o.Key == "" {
		return newConfigError(nil, "API key is empty")
	}

	_, err := decodeSecret(o.Secret)

	return err
}
