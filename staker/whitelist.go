package staker

import (
	"inj-staker/db"
	"inj-staker/types"
)

// isAgent reports whether addr is the owner or a registered agent.
func isAgent(s db.Store, addr string) (bool, error) {
	owner, err := getOwner(s)
	if err != nil {
		return false, err
	}
	if addr == owner {
		return true, nil
	}
	return s.GetRecord(&types.Agent{Addr: addr})
}

func checkAgent(s db.Store, addr string) error {
	ok, err := isAgent(s, addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCallerIsNotAgent
	}
	return nil
}

func getUserStatus(s db.Store, user string) (types.UserStatus, error) {
	record := &types.UserRecord{Addr: user}
	found, err := s.GetRecord(record)
	if err != nil {
		return types.NoStatus, err
	}
	if !found {
		return types.NoStatus, nil
	}
	return record.Status, nil
}

func checkWhitelisted(s db.Store, user string) error {
	status, err := getUserStatus(s, user)
	if err != nil {
		return err
	}
	if status != types.Whitelisted {
		return ErrUserNotWhitelisted
	}
	return nil
}

// AddAgent registers a new whitelist agent. The owner is implicitly an agent
// and cannot be added.
func (e *Engine) AddAgent(sender, newAgent string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkAgent(txn, sender); err != nil {
			return err
		}
		owner, err := getOwner(txn)
		if err != nil {
			return err
		}
		if newAgent == owner {
			return ErrOwnerCannotBeAdded
		}
		exists, err := txn.GetRecord(&types.Agent{Addr: newAgent})
		if err != nil {
			return err
		}
		if exists {
			return ErrAgentAlreadyExists
		}
		if err := txn.PutRecord(&types.Agent{Addr: newAgent}); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("agent_added").
			Add("new_agent", newAgent))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) RemoveAgent(sender, agent string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkAgent(txn, sender); err != nil {
			return err
		}
		owner, err := getOwner(txn)
		if err != nil {
			return err
		}
		if agent == owner {
			return ErrOwnerCannotBeRemoved
		}
		record := &types.Agent{Addr: agent}
		exists, err := txn.GetRecord(record)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAgentDoesNotExist
		}
		if err := txn.DeleteRecord(record); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("agent_removed").
			Add("removed_agent", agent))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) AddUserToWhitelist(sender, user string) (*Response, error) {
	return e.setUserStatus(sender, user, types.Whitelisted)
}

func (e *Engine) AddUserToBlacklist(sender, user string) (*Response, error) {
	return e.setUserStatus(sender, user, types.Blacklisted)
}

func (e *Engine) ClearUserStatus(sender, user string) (*Response, error) {
	return e.setUserStatus(sender, user, types.NoStatus)
}

func (e *Engine) setUserStatus(sender, user string, status types.UserStatus) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkAgent(txn, sender); err != nil {
			return err
		}
		current, err := getUserStatus(txn, user)
		if err != nil {
			return err
		}
		if current == status {
			switch status {
			case types.Whitelisted:
				return ErrUserAlreadyWhitelisted
			case types.Blacklisted:
				return ErrUserAlreadyBlacklisted
			default:
				return ErrUserStatusAlreadyCleared
			}
		}

		if status == types.NoStatus {
			if err := txn.DeleteRecord(&types.UserRecord{Addr: user}); err != nil {
				return err
			}
		} else {
			if err := txn.PutRecord(&types.UserRecord{Addr: user, Status: status}); err != nil {
				return err
			}
		}

		res.addEvent(types.NewEvent("whitelisting_status_changed").
			Add("user", user).
			Add("old_status", current.String()).
			Add("new_status", status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
