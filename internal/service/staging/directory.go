package staging

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/stockflow/internal/domain/models"
)

// Directory holds the read-only reference lists an engine validates against.
type Directory struct {
	AllBranches []models.Branch
	Users       []models.User
	SkuCodes    []models.SkuCode
}

// Context is the explicit state an engine is constructed with.
type Context struct {
	CurrentUser models.User
	Directory   Directory
}

// Branches returns the branches the current user may transfer to, which
// excludes the user's own branch.
func (c Context) Branches() []models.Branch {
	out := make([]models.Branch, 0, len(c.Directory.AllBranches))
	for _, b := range c.Directory.AllBranches {
		if b.ID == c.CurrentUser.BranchID {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Engineers returns users with the engineer role, other than the current user.
func (c Context) Engineers() []models.User {
	var out []models.User
	for _, u := range c.Directory.Users {
		if u.ID == c.CurrentUser.ID {
			continue
		}
		if strings.EqualFold(u.Role, models.RoleEngineer) {
			out = append(out, u)
		}
	}
	return out
}

// Resolve returns the destination for kind and id if it is eligible.
func (c Context) Resolve(kind models.DestinationKind, id string) (models.Destination, error) {
	switch kind {
	case models.DestinationBranch:
		for _, b := range c.Branches() {
			if b.ID == id {
				return models.Destination{Kind: kind, ID: b.ID, Name: b.Name}, nil
			}
		}
	case models.DestinationEngineer:
		for _, u := range c.Engineers() {
			if u.ID == id {
				return models.Destination{Kind: kind, ID: u.ID, Name: u.Name}, nil
			}
		}
	default:
		return models.Destination{}, fmt.Errorf("%w: kind %q", ErrUnknownDestination, kind)
	}
	return models.Destination{}, fmt.Errorf("%w: %s %s", ErrUnknownDestination, kind, id)
}
