package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               string
	Username         string
	Email            string
	FullName         string
	PasswordHash     string
	Avatar           string
	CoverImage       string
	Role             string
	RefreshTokenHash *string
	RefreshTokenID   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicUser is the password- and token-free projection returned by the API.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

// AuthUser is the acting identity attached to the request context by the
// auth middleware. Fields come from the access token snapshot, or from the
// store when re-fetching is enabled.
type AuthUser struct {
	ID       string
	Username string
	Email    string
	FullName string
	Role     string
}

type ChannelProfile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Avatar          string `json:"avatar,omitempty"`
	CoverImage      string `json:"coverImage,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	SubscribedCount int64  `json:"subscribedCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}
