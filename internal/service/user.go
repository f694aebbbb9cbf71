package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repoUser   repository.UserStore
	repoSub    repository.SubscriptionStore
	repoVideo  repository.VideoStore
	jwtService *JWTService
	uploader   MediaUploader
}

func NewUserService(
	repoUser repository.UserStore,
	repoSub repository.SubscriptionStore,
	repoVideo repository.VideoStore,
	jwtService *JWTService,
	uploader MediaUploader,
) *UserService {
	return &UserService{
		repoUser:   repoUser,
		repoSub:    repoSub,
		repoVideo:  repoVideo,
		jwtService: jwtService,
		uploader:   uploader,
	}
}

// hashPassword hashes password using bcrypt
func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func checkPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// RegisterUser creates an account. The avatar is mandatory, the cover image is not.
func (s *UserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest, avatar, coverImage *storage.File) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RegisterUser")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	fullname := strings.TrimSpace(req.Fullname)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if fullname == "" || email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.ErrAllFieldsRequired
	}

	logger.InfoWithContext(ctx, "Registering user").
		String("username", username).
		String("email", email).
		Log()

	existing, err := s.repoUser.GetByUsernameOrEmail(ctx, username, email)
	if err != nil && !isNotFound(err) {
		logger.ErrorWithContext(ctx, "Failed to check existing user").
			String("username", username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		logger.WarnWithContext(ctx, "Username or email already registered").
			String("username", username).
			Log()
		return nil, apperrors.ErrUsernameOrEmailExists
	}

	if avatar == nil {
		return nil, apperrors.ErrAvatarRequired
	}

	avatarURL, err := s.uploader.Upload(ctx, FolderAvatars, *avatar)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upload avatar").
			String("username", username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
	}

	var coverURL string
	if coverImage != nil {
		coverURL, err = s.uploader.Upload(ctx, FolderCovers, *coverImage)
		if err != nil {
			logger.ErrorWithContext(ctx, "Failed to upload cover image").
				String("username", username).
				Err(err).
				Log()
			return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
		}
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		Fullname:   fullname,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   hashedPassword,
	}
	if err := s.repoUser.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameOrEmailExists
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	created, err := s.repoUser.GetByID(ctx, user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Registered user could not be reloaded").
			UserID(user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrRegistrationIncomplete, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		UserID(created.ID).
		Log()

	res := toUserResponse(created)
	return &res, nil
}

// issueTokenPair signs a fresh pair for user. The caller persists the refresh hash.
func (s *UserService) issueTokenPair(user *model.User) (dto.TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return dto.TokenPair{}, err
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return dto.TokenPair{}, err
	}
	return dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *UserService) LoginUser(ctx context.Context, req dto.UserLoginRequest) (*dto.UserLoginResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "LoginUser")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, apperrors.ErrIdentifierRequired
	}

	user, err := s.repoUser.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if isNotFound(err) {
			logger.LogAuth(0, "login", false)
			return nil, apperrors.ErrUserNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to load user for login").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, req.Password) {
		logger.LogAuth(user.ID, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign tokens").
			UserID(user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Replaces whatever session was active before.
	if err := s.repoUser.SetRefreshToken(ctx, user.ID, HashRefreshToken(pair.RefreshToken)); err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist refresh token").
			UserID(user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(user.ID, "login", true)

	return &dto.UserLoginResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// RefreshAccessToken rotates the session. The presented token must still be the stored one,
// and the swap itself is conditional on that, so two concurrent refreshes cannot both win.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RefreshAccessToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if refreshToken == "" {
		return nil, apperrors.ErrUnauthorized
	}

	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token rejected").
			Err(err).
			Log()
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	presentedHash := HashRefreshToken(refreshToken)
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != presentedHash {
		logger.WarnWithContext(ctx, "Refresh token does not match the active session").
			UserID(userID).
			Log()
		return nil, apperrors.ErrRefreshTokenReused
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.repoUser.SwapRefreshToken(ctx, user.ID, presentedHash, HashRefreshToken(pair.RefreshToken)); err != nil {
		if isNotFound(err) {
			logger.WarnWithContext(ctx, "Refresh token superseded during rotation").
				UserID(userID).
				Log()
			return nil, apperrors.ErrRefreshTokenReused
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(user.ID, "refresh", true)

	return &dto.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// LogoutUser revokes the stored refresh token.
func (s *UserService) LogoutUser(ctx context.Context, userID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "LogoutUser")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if err := s.repoUser.ClearRefreshToken(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrUnauthorized
		}
		logger.ErrorWithContext(ctx, "Failed to clear refresh token").
			UserID(userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(userID, "logout", true)
	return nil
}

// ResolveSession turns an access token into the sanitized user it belongs to.
func (s *UserService) ResolveSession(ctx context.Context, accessToken string) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ResolveSession")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if accessToken == "" {
		return nil, apperrors.ErrUnauthorized
	}

	userID, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrInvalidToken
		}
		logger.ErrorWithContext(ctx, "Failed to load session user").
			UserID(userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := toUserResponse(user)
	return &res, nil
}

func (s *UserService) GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetCurrentUser")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := toUserResponse(user)
	return &res, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ChangePassword")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, req.OldPassword) {
		logger.WarnWithContext(ctx, "Old password mismatch").
			UserID(userID).
			Log()
		return apperrors.ErrIncorrectPassword
	}

	hashedPassword, err := hashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.repoUser.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		logger.ErrorWithContext(ctx, "Failed to update password").
			UserID(userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		UserID(userID).
		Log()
	return nil
}

func (s *UserService) UpdateAccountDetails(ctx context.Context, userID uint, req dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateAccountDetails")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	fullname := strings.TrimSpace(req.Fullname)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullname == "" || email == "" {
		return nil, apperrors.ErrAllFieldsRequired
	}

	taken, err := s.repoUser.EmailTakenByOther(ctx, email, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if taken {
		return nil, apperrors.ErrEmailExists
	}

	if err := s.repoUser.UpdateAccount(ctx, userID, fullname, email); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to update account").
			UserID(userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.GetCurrentUser(ctx, userID)
}

// UpdateAvatar replaces the avatar and drops the previous object from storage.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, file *storage.File) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateAvatar")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if file == nil {
		return nil, apperrors.ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, file, FolderAvatars,
		func(u *model.User) string { return u.Avatar },
		s.repoUser.UpdateAvatar)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, file *storage.File) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateCoverImage")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if file == nil {
		return nil, apperrors.ErrCoverImageRequired
	}
	return s.replaceImage(ctx, userID, file, FolderCovers,
		func(u *model.User) string { return u.CoverImage },
		s.repoUser.UpdateCoverImage)
}

func (s *UserService) replaceImage(
	ctx context.Context,
	userID uint,
	file *storage.File,
	folder string,
	current func(u *model.User) string,
	save func(ctx context.Context, id uint, url string) error,
) (*dto.UserResponse, error) {
	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	previous := current(user)

	url, err := s.uploader.Upload(ctx, folder, *file)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upload image").
			UserID(userID).
			String("folder", folder).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
	}

	if err := save(ctx, userID, url); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if previous != "" {
		// orphaned objects are only a storage cost
		if err := s.uploader.Delete(ctx, previous); err != nil {
			logger.WarnWithContext(ctx, "Failed to delete previous image").
				String("url", previous).
				Err(err).
				Log()
		}
	}

	return s.GetCurrentUser(ctx, userID)
}

// GetChannelProfile returns a channel with its subscription counts as seen by viewerID.
func (s *UserService) GetChannelProfile(ctx context.Context, username string, viewerID uint) (*dto.ChannelProfileResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetChannelProfile")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username is missing")
	}

	channel, err := s.repoUser.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	subscribers, err := s.repoSub.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	subscribedTo, err := s.repoSub.CountChannels(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	isSubscribed := false
	if viewerID != 0 {
		_, err := s.repoSub.Find(ctx, viewerID, channel.ID)
		switch {
		case err == nil:
			isSubscribed = true
		case !isNotFound(err):
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	return &dto.ChannelProfileResponse{
		ID:                        channel.ID,
		Fullname:                  channel.Fullname,
		Username:                  channel.Username,
		Email:                     channel.Email,
		Avatar:                    channel.Avatar,
		CoverImage:                channel.CoverImage,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

// GetWatchHistory returns watched videos, most recent first. Deleted and hidden videos drop out.
func (s *UserService) GetWatchHistory(ctx context.Context, userID uint) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetWatchHistory")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	history := []uint(user.WatchHistory)
	if len(history) == 0 {
		return []dto.VideoResponse{}, nil
	}

	videos, err := s.repoVideo.GetByIDs(ctx, history)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	videos = visibleVideos(videos, userID)
	byID := make(map[uint]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}

	res := make([]dto.VideoResponse, 0, len(videos))
	for _, id := range history {
		if v, ok := byID[id]; ok {
			res = append(res, toVideoResponse(v))
		}
	}

	logger.DebugWithContext(ctx, "Watch history loaded").
		UserID(userID).
		Int("count", len(res)).
		Log()

	return res, nil
}
