package models

// RoleEngineer is the user role eligible to receive engineer transfers.
const RoleEngineer = "engineer"

// Branch is a stock holding location.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is a directory entry for an application user.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	BranchID string `json:"branchId"`
}
