package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/pkg/jwt"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// MinPasswordLen largo mínimo de password.
const MinPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ShopDirectory parte del registro de tiendas que usa el login.
type ShopDirectory interface {
	ListShops(ctx context.Context, ownerID string) ([]entity.Shop, error)
	ActiveShop(ctx context.Context, ownerID string) (*entity.Shop, error)
}

// AuthUseCase casos de uso de autenticación: registro, login y siembra del admin.
type AuthUseCase struct {
	userRepo repository.UserRepository
	shops    ShopDirectory
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, shops ShopDirectory, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, shops: shops, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Register crea un usuario: valida, hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists o ErrDuplicate (documento) si ya existen.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := normalizeRegister(&in); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	existing, err = uc.userRepo.GetByDocument(ctx, in.DocumentType, in.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: documento ya registrado", domain.ErrDuplicate)
	}

	user, err := uc.newUser(in.Name, in.Email, in.DocumentType, in.DocumentNumber, in.Address, in.Password, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("usuario registrado")
	out := usecase.ToUserResponse(user)
	return &out, nil
}

// Login verifica email/password, genera JWT y retorna token, usuario, tiendas y tienda activa.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	shops, err := uc.shops.ListShops(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	activeID := ""
	if len(shops) > 0 {
		active, err := uc.shops.ActiveShop(ctx, user.ID)
		switch {
		case err == nil:
			activeID = active.ID
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, err
		}
	}

	list := usecase.ToShopList(shops, activeID)
	return &dto.LoginResponse{
		Token:        token,
		User:         usecase.ToUserResponse(user),
		Shops:        list.Items,
		ActiveShopID: activeID,
	}, nil
}

// EnsureAdmin crea el administrador por defecto si el email no existe. Email vacío no hace nada.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password del admin demasiado corto", domain.ErrValidation)
	}
	admin, err := uc.newUser(name, email, entity.DocumentCPF, "00000000000", "Sistema", password, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	uc.log.Info().Str("email", email).Msg("usuario administrador creado")
	return nil
}

// ListUsers listado paginado de usuarios (solo admin).
func (uc *AuthUseCase) ListUsers(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, usecase.ToUserResponse(&users[i]))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *AuthUseCase) newUser(name, email, docType, docNumber, address, password, role string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          email,
		DocumentType:   docType,
		DocumentNumber: docNumber,
		Address:        address,
		Role:           role,
		PasswordHash:   string(hash),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// normalizeRegister recorta campos, deja solo dígitos en el documento y valida.
// CPF tiene 11 dígitos y CNPJ 14.
func normalizeRegister(in *dto.RegisterRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.DocumentType = strings.ToLower(strings.TrimSpace(in.DocumentType))
	in.DocumentNumber = onlyDigits(in.DocumentNumber)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name == "" {
		return fmt.Errorf("%w: nome completo es requerido", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email inválido", domain.ErrValidation)
	}
	switch in.DocumentType {
	case entity.DocumentCPF:
		if len(in.DocumentNumber) != 11 {
			return fmt.Errorf("%w: CPF debe tener 11 dígitos", domain.ErrValidation)
		}
	case entity.DocumentCNPJ:
		if len(in.DocumentNumber) != 14 {
			return fmt.Errorf("%w: CNPJ debe tener 14 dígitos", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: tipo de documento debe ser cpf o cnpj", domain.ErrValidation)
	}
	if len(in.Password) < MinPasswordLen {
		return fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrValidation, MinPasswordLen)
	}
	return nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
