package types

import "fmt"

// Agent is an address allowed to manage the user whitelist.
type Agent struct {
	Addr string
}

func (a *Agent) Key() string {
	return fmt.Sprintf("Agent_%s", a.Addr)
}

func AgentPrefix() string {
	return "Agent_"
}

type UserStatus uint8

const (
	NoStatus UserStatus = iota
	Whitelisted
	Blacklisted
)

func (s UserStatus) String() string {
	switch s {
	case Whitelisted:
		return "whitelisted"
	case Blacklisted:
		return "blacklisted"
	default:
		return "no_status"
	}
}

type UserRecord struct {
	Addr   string
	Status UserStatus
}

func (u *UserRecord) Key() string {
	return fmt.Sprintf("User_%s", u.Addr)
}

func UserPrefix() string {
	return "User_"
}
