package dto

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ScolariteLoginDTO authenticates by username, per the registrar contract.
type ScolariteLoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type UnifiedLoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Role    string `json:"role"`
}

// LoginResponse is the profile-bearing variant returned to the registrar.
type LoginResponse struct {
	Access    string   `json:"access"`
	Refresh   string   `json:"refresh"`
	Prenom    string   `json:"prenom"`
	Nom       string   `json:"nom"`
	Email     string   `json:"email"`
	PathPhoto string   `json:"pathPhoto,omitempty"`
	Groups    []string `json:"groups"`
}

type RegisterCandidatDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nom      string `json:"nom" binding:"required"`
	Prenom   string `json:"prenom" binding:"required"`
}

type VerifyEmailDTO struct {
	Token string `json:"token" binding:"required"`
}

type ResendVerificationDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type RefreshTokenDTO struct {
	Refresh string `json:"refresh" binding:"required"`
}

// VerifyTokenDTO carries a third-party identity token.
type VerifyTokenDTO struct {
	Token string `json:"token" binding:"required"`
}

type PasswordResetRequestDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type PerformPasswordResetDTO struct {
	Password string `json:"password" binding:"required,min=8"`
	Token    string `json:"token" binding:"required"`
}

type UserInfoResponse struct {
	Nom       string   `json:"nom"`
	Prenom    string   `json:"prenom"`
	Email     string   `json:"email"`
	PathPhoto string   `json:"pathPhoto,omitempty"`
	Groups    []string `json:"groups"`
}

type AuthProfResponse struct {
	Email          string   `json:"email"`
	Nom            string   `json:"nom"`
	Prenom         string   `json:"prenom"`
	PathPhoto      string   `json:"pathPhoto,omitempty"`
	Groups         []string `json:"groups"`
	Access         string   `json:"access"`
	Refresh        string   `json:"refresh"`
	Grade          string   `json:"grade,omitempty"`
	NombreProposer int      `json:"nombreProposer"`
	NombreEncadrer int      `json:"nombreEncadrer"`
}
