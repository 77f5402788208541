package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"not found"`
}

// HealthResponseDTO 는 /health 응답이다.
type HealthResponseDTO struct {
	Status     string `json:"status" example:"ok"`
	ContentAPI string `json:"content_api,omitempty" example:"down"`
	Error      string `json:"error,omitempty"`
}
