package repository

import (
	"context"
	"slices"
	"time"

	"github.com/Payphone-Digital/videotube/internal/model"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			UserID(id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		UserID(id).
		Duration(duration).
		Log()

	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByUsername")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by username").
			String("username", username).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByUsernameOrEmail matches either identifier; empty identifiers are ignored.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByUsernameOrEmail")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if username == "" && email == "" {
		return nil, gorm.ErrRecordNotFound
	}

	start := time.Now()
	query := r.db.WithContext(ctx).Model(&model.User{})
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	default:
		query = query.Where("email = ?", email)
	}

	var user model.User
	result := query.First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by username or email").
			String("username", username).
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully by identifier").
		UserID(user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

func (r *UserRepository) EmailTakenByOther(ctx context.Context, email string, excludeID uint) (bool, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "EmailTakenByOther")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check email availability").
			String("email", email).
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Creating new user").
		String("username", user.Username).
		String("email", user.Email).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", user.Username).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		UserID(user.ID).
		Duration(duration).
		Log()

	return nil
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id uint, fullname, email string) error {
	return r.updateColumns(ctx, "UpdateAccount", id, map[string]interface{}{
		"fullname": fullname,
		"email":    email,
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	return r.updateColumns(ctx, "UpdatePassword", id, map[string]interface{}{
		"password": hashedPassword,
	})
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uint, avatar string) error {
	return r.updateColumns(ctx, "UpdateAvatar", id, map[string]interface{}{
		"avatar": avatar,
	})
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uint, coverImage string) error {
	return r.updateColumns(ctx, "UpdateCoverImage", id, map[string]interface{}{
		"cover_image": coverImage,
	})
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id uint, tokenHash string) error {
	return r.updateColumns(ctx, "SetRefreshToken", id, map[string]interface{}{
		"refresh_token_hash": tokenHash,
	})
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id uint) error {
	return r.updateColumns(ctx, "ClearRefreshToken", id, map[string]interface{}{
		"refresh_token_hash": nil,
	})
}

// SwapRefreshToken is a compare-and-swap on refresh_token_hash. Two concurrent refreshes
// presenting the same token cannot both succeed.
func (r *UserRepository) SwapRefreshToken(ctx context.Context, id uint, presentedHash, newHash string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SwapRefreshToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND refresh_token_hash = ?", id, presentedHash).
		Update("refresh_token_hash", newHash)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to rotate refresh token").
			UserID(id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "Refresh token no longer current").
			UserID(id).
			Duration(duration).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token rotated").
		UserID(id).
		Duration(duration).
		Log()

	return nil
}

// PushWatchHistory moves videoID to the front of the user's history, keeping at most limit entries.
func (r *UserRepository) PushWatchHistory(ctx context.Context, id, videoID uint, limit int) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "PushWatchHistory")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "watch_history").
			Where("id = ?", id).
			First(&user).Error; err != nil {
			return err
		}

		history := PrependUnique([]uint(user.WatchHistory), videoID, limit)
		return tx.Model(&model.User{}).Where("id = ?", id).
			Update("watch_history", datatypes.NewJSONSlice(history)).Error
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update watch history").
			UserID(id).
			VideoID(videoID).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	return nil
}

// PrependUnique returns ids with id at the front, any older occurrence removed, capped at limit.
func PrependUnique[T comparable](ids []T, id T, limit int) []T {
	out := make([]T, 0, len(ids)+1)
	out = append(out, id)
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	if limit > 0 && len(out) > limit {
		out = slices.Clip(out[:limit])
	}
	return out
}

func (r *UserRepository) updateColumns(ctx context.Context, function string, id uint, columns map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(columns)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			UserID(id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			UserID(id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "User updated successfully").
		UserID(id).
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()

	return nil
}
