package response

// APIResponseCode is a stable, user-mappable error code. Codes group by the
// failure taxonomy: validation, authorization, not-found, conflict/terminal
// state, integrity, dependency.
type APIResponseCode int

const (
	APIResponseCodeOK            APIResponseCode = 0
	APIResponseCodeBadRequest    APIResponseCode = 40000
	APIResponseCodeUnauthorized  APIResponseCode = 40100
	APIResponseCodeNotFound      APIResponseCode = 40400
	APIResponseCodeConflict      APIResponseCode = 40900
	APIResponseCodeIntegrity     APIResponseCode = 42200
	APIResponseCodeError         APIResponseCode = 50000
	APIResponseCodeGatewayBroken APIResponseCode = 50300
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:            "ok",
	APIResponseCodeBadRequest:    "invalid request",
	APIResponseCodeUnauthorized:  "unauthorized",
	APIResponseCodeNotFound:      "not found",
	APIResponseCodeConflict:      "conflict",
	APIResponseCodeIntegrity:     "integrity check failed",
	APIResponseCodeError:         "unexpected error",
	APIResponseCodeGatewayBroken: "payment gateway unavailable",
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with the code's canonical message and
// optional detail data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}
