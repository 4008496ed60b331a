package controllers

import (
	"errors"
	"net/http"

	"github.com/edoctorat/backend/dto"
	"github.com/edoctorat/backend/services"
	"github.com/gin-gonic/gin"
)

// Login is the unified endpoint: any role's credentials, reporting which
// role authenticated. It is the only login path that distinguishes an
// unverified email from bad credentials.
func Login(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := svc.UnifiedLogin(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, services.ErrEmailNotVerified) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "EMAIL_NOT_VERIFIED",
				"message": "Please verify your email before logging in",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// LoginWithGroup builds the role-specific login handlers. Any failure is a
// plain 401: callers must not learn which check broke.
func LoginWithGroup(svc *services.UserService, group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := svc.LoginWithGroup(c.Request.Context(), req.Email, req.Password, group)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func LoginScolarite(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ScolariteLoginDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := svc.LoginScolarite(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func VerifyIsProf(svc *services.GoogleAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.VerifyTokenDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := svc.VerifyProfessor(c.Request.Context(), req.Token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "google authentication failed"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func RefreshToken(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RefreshTokenDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		access, err := svc.RefreshAccessToken(c.Request.Context(), req.Refresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

func RegisterCandidat(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RegisterCandidatDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.RegisterCandidat(c.Request.Context(), req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Registration successful"})
	}
}

func VerifyEmail(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.VerifyEmailDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.VerifyEmail(c.Request.Context(), req.Token); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	}
}

func ResendVerification(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ResendVerificationDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
	}
}

func CheckVerificationStatus(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")

		verified, err := svc.VerificationStatus(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": email, "isVerified": verified})
	}
}

// RequestPasswordReset always reports success so the endpoint cannot be
// used to enumerate registered emails.
func RequestPasswordReset(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PasswordResetRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_ = svc.RequestPasswordReset(c.Request.Context(), req.Email)
		c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent"})
	}
}

func PerformPasswordReset(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PerformPasswordResetDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.PerformPasswordReset(c.Request.Context(), req.Password, req.Token); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
