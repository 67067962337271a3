package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OKResponse cuerpo genérico de éxito para guardados de formularios.
type OKResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}
