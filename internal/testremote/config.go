// Package testremote is a stand-in for the game's account and gacha-history
// endpoints. It serves generated draw history so the sync pipeline can be
// exercised end to end without real credentials.
package testremote

import "time"

// Endpoint paths served by the fake remote. They mirror the official hosts.
const (
	TokenPath = "/user/auth/v1/token_by_phone_password"
	GachaPath = "/user/api/inquiry/gacha"
)

// Config holds configuration for the fake remote.
type Config struct {
	Addr     string        // Listen address
	Batches  int           // Number of batches to generate
	Pools    []string      // Pool names drawn from
	Phone    string        // Accepted phone
	Password string        // Accepted password
	Token    string        // Token handed out on login
	Latency  time.Duration // Artificial delay per history request
	LogFile  string        // Log file for server output
	Verbose  bool          // Enable verbose logging
}

// DefaultConfig returns a config suitable for local runs.
func DefaultConfig() Config {
	return Config{
		Addr:     "127.0.0.1:9180",
		Batches:  95,
		Pools:    []string{"Standard", "Limited", "Joint Operation"},
		Phone:    "10000000000",
		Password: "password",
		Token:    "mock-token",
	}
}

type tokenRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Status int        `json:"status"`
	Msg    string     `json:"msg"`
	Data   *tokenData `json:"data,omitempty"`
}

type tokenData struct {
	Token string `json:"token"`
}

type gachaResponse struct {
	Code int        `json:"code"`
	Msg  string     `json:"msg"`
	Data *gachaData `json:"data,omitempty"`
}

type gachaData struct {
	List       any        `json:"list"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}
