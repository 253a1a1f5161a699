package user

import "github.com/frahmantamala/order-admin/internal/collection"

// UserResponse is a User without its password.
type UserResponse struct {
	ID                    int64             `json:"id"`
	UserNo                collection.Scalar `json:"userNo"`
	Username              string            `json:"username"`
	Email                 string            `json:"email"`
	Name                  string            `json:"name"`
	Surname               string            `json:"surname"`
	Role                  string            `json:"role"`
	Department            string            `json:"department"`
	Admin                 bool              `json:"admin"`
	CanSeeAllBranches     bool              `json:"canSeeAllBranches"`
	SalesRepresentative   bool              `json:"salesRepresentative"`
	SeesStockCosts        bool              `json:"seesStockCosts"`
	RestrictedFinanceUser bool              `json:"restrictedFinanceUser"`
	SystemAuthority       bool              `json:"systemAuthority"`
}

func ToResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}

// CreateUserRequest carries a new user. Any id in the body is ignored.
type CreateUserRequest struct {
	UserNo                collection.Scalar `json:"userNo"`
	Username              string            `json:"username"`
	Password              string            `json:"password"`
	Email                 string            `json:"email"`
	Name                  string            `json:"name"`
	Surname               string            `json:"surname"`
	Role                  string            `json:"role"`
	Department            string            `json:"department"`
	Admin                 bool              `json:"admin"`
	CanSeeAllBranches     bool              `json:"canSeeAllBranches"`
	SalesRepresentative   bool              `json:"salesRepresentative"`
	SeesStockCosts        bool              `json:"seesStockCosts"`
	RestrictedFinanceUser bool              `json:"restrictedFinanceUser"`
	SystemAuthority       bool              `json:"systemAuthority"`
}

func (r CreateUserRequest) ToUser() User {
	return User{
		UserNo:                r.UserNo,
		Username:              r.Username,
		Password:              r.Password,
		Email:                 r.Email,
		Name:                  r.Name,
		Surname:               r.Surname,
		Role:                  r.Role,
		Department:            r.Department,
		Admin:                 r.Admin,
		CanSeeAllBranches:     r.CanSeeAllBranches,
		SalesRepresentative:   r.SalesRepresentative,
		SeesStockCosts:        r.SeesStockCosts,
		RestrictedFinanceUser: r.RestrictedFinanceUser,
		SystemAuthority:       r.SystemAuthority,
	}
}

// UserPatch lists the fields a PUT changes. A nil field, whether absent from
// the body or sent as null, leaves the stored value alone. An empty password
// also leaves it alone.
type UserPatch struct {
	ID                    *int64             `json:"id"`
	UserNo                *collection.Scalar `json:"userNo"`
	Username              *string            `json:"username"`
	Password              *string            `json:"password"`
	Email                 *string            `json:"email"`
	Name                  *string            `json:"name"`
	Surname               *string            `json:"surname"`
	Role                  *string            `json:"role"`
	Department            *string            `json:"department"`
	Admin                 *bool              `json:"admin"`
	CanSeeAllBranches     *bool              `json:"canSeeAllBranches"`
	SalesRepresentative   *bool              `json:"salesRepresentative"`
	SeesStockCosts        *bool              `json:"seesStockCosts"`
	RestrictedFinanceUser *bool              `json:"restrictedFinanceUser"`
	SystemAuthority       *bool              `json:"systemAuthority"`
}

// Apply copies every set field except Password onto u.
func (p *UserPatch) Apply(u User) User {
	if p.UserNo != nil {
		u.UserNo = *p.UserNo
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Admin != nil {
		u.Admin = *p.Admin
	}
	if p.CanSeeAllBranches != nil {
		u.CanSeeAllBranches = *p.CanSeeAllBranches
	}
	if p.SalesRepresentative != nil {
		u.SalesRepresentative = *p.SalesRepresentative
	}
	if p.SeesStockCosts != nil {
		u.SeesStockCosts = *p.SeesStockCosts
	}
	if p.RestrictedFinanceUser != nil {
		u.RestrictedFinanceUser = *p.RestrictedFinanceUser
	}
	if p.SystemAuthority != nil {
		u.SystemAuthority = *p.SystemAuthority
	}
	return u
}

// NewPassword returns the password to set, if any.
func (p *UserPatch) NewPassword() (string, bool) {
	if p.Password == nil || *p.Password == "" {
		return "", false
	}
	return *p.Password, true
}

type DeleteResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}
