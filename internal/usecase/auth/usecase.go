package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/organization"
	"drmp-backend/internal/domain/user"
)

const (
	refreshKeyPrefix   = "token:refresh:"
	blacklistKeyPrefix = "token:blacklist:"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload. OrgType travels with the token so authorization
// does not need a DB round trip.
type Claims struct {
	UserID    uint64 `json:"userId"`
	OrgID     uint64 `json:"orgId"`
	OrgType   string `json:"orgType"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

type Usecase struct {
	users      user.Repository
	orgs       organization.Repository
	redis      *redis.Client
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewUsecase(users user.Repository, orgs organization.Repository, rdb *redis.Client, secret string, accessTTL, refreshTTL time.Duration) *Usecase {
	return &Usecase{
		users:      users,
		orgs:       orgs,
		redis:      rdb,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Login verifies credentials and issues an access/refresh token pair. Only
// the newest refresh token per user stays valid.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	usr, err := u.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrBadCredentials
		}
		return nil, err
	}
	if !usr.IsActive() {
		return nil, apperr.ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(in.Password)) != nil {
		return nil, apperr.ErrBadCredentials
	}

	org, err := u.orgs.GetByID(ctx, usr.OrgID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	orgType := ""
	if org != nil && err == nil {
		if !org.IsActive() {
			return nil, apperr.ErrOrgNotApproved
		}
		orgType = string(org.Type)
	}

	access, refresh, err := u.issuePair(usr, orgType)
	if err != nil {
		return nil, err
	}
	if err := u.redis.Set(ctx, refreshKeyPrefix+itoa(usr.ID), refresh, u.refreshTTL).Err(); err != nil {
		return nil, err
	}
	if err := u.users.UpdateLastLogin(ctx, usr.ID, u.now().UTC(), in.ClientIP); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(u.accessTTL.Seconds()),
		User:         toUserInfo(usr, orgType),
	}, nil
}

// Refresh rotates the token pair. A refresh token that is not the stored
// latest one is rejected.
func (u *Usecase) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := u.parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, apperr.ErrInvalidToken
	}

	stored, err := u.redis.Get(ctx, refreshKeyPrefix+itoa(claims.UserID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}
	if stored != refreshToken {
		return nil, apperr.ErrInvalidToken
	}

	usr, err := u.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}
	if !usr.IsActive() {
		return nil, apperr.ErrUserDisabled
	}

	access, refresh, err := u.issuePair(usr, claims.OrgType)
	if err != nil {
		return nil, err
	}
	if err := u.redis.Set(ctx, refreshKeyPrefix+itoa(usr.ID), refresh, u.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(u.accessTTL.Seconds()),
		User:         toUserInfo(usr, claims.OrgType),
	}, nil
}

// Logout blacklists the access token for its remaining lifetime and drops
// the stored refresh token.
func (u *Usecase) Logout(ctx context.Context, accessToken string) error {
	claims, err := u.parse(accessToken)
	if err != nil {
		return err
	}
	if claims.TokenType != tokenTypeAccess {
		return apperr.ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := u.redis.Set(ctx, blacklistKeyPrefix+accessToken, "1", ttl).Err(); err != nil {
			return err
		}
	}
	return u.redis.Del(ctx, refreshKeyPrefix+itoa(claims.UserID)).Err()
}

// Validate checks an access token and returns its claims.
func (u *Usecase) Validate(ctx context.Context, accessToken string) (*Claims, error) {
	claims, err := u.parse(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, apperr.ErrInvalidToken
	}

	n, err := u.redis.Exists(ctx, blacklistKeyPrefix+accessToken).Result()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}

func (u *Usecase) issuePair(usr *user.User, orgType string) (access, refresh string, err error) {
	if access, err = u.sign(usr, orgType, tokenTypeAccess, u.accessTTL); err != nil {
		return
	}
	refresh, err = u.sign(usr, orgType, tokenTypeRefresh, u.refreshTTL)
	return
}

func (u *Usecase) sign(usr *user.User, orgType, tokenType string, ttl time.Duration) (string, error) {
	now := u.now().UTC()
	claims := Claims{
		UserID:    usr.ID,
		OrgID:     usr.OrgID,
		OrgType:   orgType,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usr.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        itoa(usr.ID) + "-" + itoa(uint64(now.UnixNano())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(u.secret)
}

func (u *Usecase) parse(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrInvalidToken
		}
		return u.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.ErrInvalidToken
	}
	return &claims, nil
}

func toUserInfo(usr *user.User, orgType string) UserInfo {
	return UserInfo{
		ID:          usr.ID,
		Username:    usr.Username,
		Nickname:    usr.Nickname,
		RealName:    usr.RealName,
		OrgID:       usr.OrgID,
		OrgType:     orgType,
		Roles:       usr.RoleCodes(),
		Permissions: usr.PermissionCodes(),
	}
}
