package model

type LoginRequest struct {
	NurseID  string `json:"nurse_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login failure codes reported in LoginResponse.Error.
const (
	LoginErrInvalidNurseID  = "invalid_nurse_id"
	LoginErrInvalidPassword = "invalid_password"
)

type LoginResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`
	Nurse   *LoggedInNurse `json:"nurse,omitempty"`
}

type LoggedInNurse struct {
	NurseID string `json:"nurse_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}
