package userservice

// User модель пользователя из UserService
type User struct {
	ID   int64  `json:"id"`
	Role string `json:"role"` // patient, professional, admin
}

// SpecialtyProfessionals список специалистов специальности
type SpecialtyProfessionals struct {
	SpecialtyID     int64   `json:"specialty_id"`
	ProfessionalIDs []int64 `json:"professional_ids"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
