// Package session holds the client's credentials and identity between API calls.
package session

// Key names a single value held in a Store.
type Key string

const (
	KeyAccessToken  Key = "accessToken"
	KeyRefreshToken Key = "refreshToken"
	KeyUserID       Key = "userId"
	KeyRole         Key = "role"
	KeyUsername     Key = "username"
	KeyEmail        Key = "email"
)

// Keys lists every key a session occupies, in persistence order.
var Keys = []Key{KeyAccessToken, KeyRefreshToken, KeyUserID, KeyRole, KeyUsername, KeyEmail}

// Store is the key-value persistence behind a session.
// It is shared by every request in the process; writes are last-writer-wins.
type Store interface {
	Get(key Key) (string, bool)
	Set(key Key, value string) error
	Clear() error
}

// Session is the client's view of an authenticated user.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

func (s Session) values() map[Key]string {
	return map[Key]string{
		KeyAccessToken:  s.AccessToken,
		KeyRefreshToken: s.RefreshToken,
		KeyUserID:       s.UserID,
		KeyRole:         s.Role,
		KeyUsername:     s.Username,
		KeyEmail:        s.Email,
	}
}

// Save replaces whatever the store holds with s. Empty fields are not written.
func Save(store Store, s Session) error {
	if err := store.Clear(); err != nil {
		return err
	}
	values := s.values()
	for _, k := range Keys {
		if values[k] == "" {
			continue
		}
		if err := store.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the session back. ok is false when no access or refresh token is stored.
func Load(store Store) (s Session, ok bool) {
	get := func(k Key) string {
		v, _ := store.Get(k)
		return v
	}
	s = Session{
		AccessToken:  get(KeyAccessToken),
		RefreshToken: get(KeyRefreshToken),
		UserID:       get(KeyUserID),
		Role:         get(KeyRole),
		Username:     get(KeyUsername),
		Email:        get(KeyEmail),
	}
	return s, s.AccessToken != "" || s.RefreshToken != ""
}
