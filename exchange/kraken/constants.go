package kraken

const (
	APIKeyHeader      = "API-Key"
	APISignHeader     = "API-Sign"
	ContentTypeHeader = "Content-Type"
	FormContentType   = "application/x-www-form-urlencoded; charset=utf-8"

	BaseURL           = "https://api.kraken.com"
	PrivatePathPrefix = "/0/private/"

	NonceKey = "nonce"

	BalanceMethod         = "Balance"
	AddOrderMethod        = "AddOrder"
	WebSocketsTokenMethod = "GetWebSocketsToken"
)
