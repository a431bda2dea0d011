package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, nomeCompleto, email, tipoDocumento, numeroDocumento, endereco, userRole, senhaHash, dataCriacao`

// UserRepo implementación del puerto UserRepository.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Email o documento repetido -> ErrEmailAlreadyExists / ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := r.q.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.DocumentType, u.DocumentNumber, u.Address, u.Role, u.PasswordHash, utc(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := r.GetByEmail(ctx, u.Email)
			if lookupErr == nil && existing != nil {
				return domain.ErrEmailAlreadyExists
			}
			return domain.ErrDuplicate
		}
		return storageErr("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user by id", `WHERE id = ?`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", `WHERE email = ?`, email)
}

// GetByDocument obtiene un usuario por (tipoDocumento, numeroDocumento).
func (r *UserRepo) GetByDocument(ctx context.Context, docType, docNumber string) (*entity.User, error) {
	return r.getOne(ctx, "get user by document", `WHERE tipoDocumento = ? AND numeroDocumento = ?`, docType, docNumber)
}

// List lista usuarios del más reciente al más antiguo.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users ORDER BY dataCriacao DESC LIMIT ? OFFSET ?`)
	rows, err := r.q.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	list := []entity.User{}
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.DocumentType, &u.DocumentNumber, &u.Address,
			&u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, storageErr("scan user", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}
	return list, nil
}

func (r *UserRepo) getOne(ctx context.Context, op, where string, args ...interface{}) (*entity.User, error) {
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users ` + where)
	var u entity.User
	err := r.q.QueryRowxContext(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.DocumentType, &u.DocumentNumber, &u.Address,
		&u.Role, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return &u, nil
}
