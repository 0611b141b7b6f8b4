package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-api/internal/application/auth"
	"github.com/jhoicas/portal-api/internal/application/dto"
)

// AuthHandler maneja login, logout y solicitudes de registro.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	registration *auth.RegistrationUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, registration *auth.RegistrationUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, registration: registration}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token actual)
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetTokenID(c), GetTokenExpiry(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitRegistration godoc
// @Summary      Solicitar acceso al portal
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrationRequestInput  true  "email, nombre y rol solicitado"
// @Success      201   {object}  dto.RegistrationRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/registration-requests [post]
func (h *AuthHandler) SubmitRegistration(c *fiber.Ctx) error {
	var in dto.RegistrationRequestInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.registration.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRegistrations godoc
// @Summary      Listar solicitudes de registro
// @Tags         registration-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"  default(pending)
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.RegistrationRequestListResponse
// @Router       /api/registration-requests [get]
func (h *AuthHandler) ListRegistrations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return err
	}
	out, err := h.registration.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ApproveRegistration godoc
// @Summary      Aprobar solicitud (crea el usuario)
// @Tags         registration-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ApproveRegistrationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registration-requests/{id}/approve [post]
func (h *AuthHandler) ApproveRegistration(c *fiber.Ctx) error {
	out, err := h.registration.Approve(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RejectRegistration godoc
// @Summary      Rechazar solicitud
// @Tags         registration-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RegistrationRequestResponse
// @Router       /api/registration-requests/{id}/reject [post]
func (h *AuthHandler) RejectRegistration(c *fiber.Ctx) error {
	out, err := h.registration.Reject(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
