package auth

import "strconv"

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	ClientIP string `json:"-"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserInfo struct {
	ID          uint64   `json:"id"`
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname,omitempty"`
	RealName    string   `json:"real_name,omitempty"`
	OrgID       uint64   `json:"org_id"`
	OrgType     string   `json:"org_type,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type LoginResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         UserInfo `json:"user"`
}

func itoa(n uint64) string { return strconv.FormatUint(n, 10) }
