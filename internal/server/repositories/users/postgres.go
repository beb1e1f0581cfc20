// Package users persists accounts in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

const selectUser = `SELECT u.id, u.username, COALESCE(u.discord_id, ''), u.avatar_url, u.email, u.password_hash,
		u.roles, u.is_admin, u.auth_type, u.is_active, u.region, u.specialized_categories, u.payout, u.created_at,
		COALESCE((SELECT SUM(p.amount) FROM payouts p WHERE p.helper_id = u.id), 0)
	FROM users u`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                       models.User
		roles, cats, payoutJSON []byte
		authType, region        string
	)
	err := row.Scan(&u.ID, &u.Username, &u.DiscordID, &u.AvatarURL, &u.Email, &u.PasswordHash,
		&roles, &u.Admin, &authType, &u.IsActive, &region, &cats, &payoutJSON, &u.CreatedAt,
		&u.TotalEarnings)
	if err != nil {
		return nil, err
	}
	u.AuthType = domain.AuthType(authType)
	u.Region = domain.Region(region)

	if err := json.Unmarshal(roles, &u.Roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	if err := json.Unmarshal(cats, &u.SpecializedCategories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal(payoutJSON, &u.PayoutDestination); err != nil {
		return nil, fmt.Errorf("decode payout destination: %w", err)
	}
	if u.Roles == nil {
		u.Roles = domain.Roles{}
	}
	return &u, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	roles, err := json.Marshal(user.Roles.Normalize())
	if err != nil {
		return nil, err
	}
	cats := user.SpecializedCategories
	if cats == nil {
		cats = []string{}
	}
	catsJSON, err := json.Marshal(cats)
	if err != nil {
		return nil, err
	}
	payoutJSON, err := json.Marshal(user.PayoutDestination)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (username, discord_id, avatar_url, email, password_hash, roles, is_admin,
		   auth_type, is_active, region, specialized_categories, payout)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		user.Username, user.DiscordID, user.AvatarURL, user.Email, user.PasswordHash, roles, user.Admin,
		string(user.AuthType), user.IsActive, string(user.Region), catsJSON, payoutJSON).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.getOne(ctx, "u.id = $1", id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "u.username = $1", username)
}

func (r *PostgresRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	return r.getOne(ctx, "u.discord_id = $1", discordID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+" ORDER BY u.created_at")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) exec(ctx context.Context, id, query string, args ...any) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// UpdateRoles replaces the role list. The admin flag follows the admin role.
func (r *PostgresRepository) UpdateRoles(ctx context.Context, id string, roles domain.Roles) error {
	roles = roles.Normalize()
	b, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	return r.exec(ctx, id, `UPDATE users SET roles = $2, is_admin = $3 WHERE id = $1`, b, roles.Has(domain.RoleAdmin))
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, id, `UPDATE users SET is_active = $2 WHERE id = $1`, active)
}

func (r *PostgresRepository) UpdateDiscordProfile(ctx context.Context, id, avatarURL, email string) error {
	return r.exec(ctx, id, `UPDATE users SET avatar_url = $2, email = $3 WHERE id = $1`, avatarURL, email)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, id, `DELETE FROM users WHERE id = $1`)
}
