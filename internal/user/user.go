package user

import "github.com/frahmantamala/order-admin/internal/collection"

// DepartmentManagement is the department whose members may change data.
const DepartmentManagement = "Yönetim"

// User is the stored record. Password holds a bcrypt hash; records written
// before hashing was introduced may still carry plaintext until their owner
// next logs in.
type User struct {
	ID                    int64             `json:"id"`
	UserNo                collection.Scalar `json:"userNo"`
	Username              string            `json:"username"`
	Password              string            `json:"password,omitempty"`
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

func (u User) GetID() int64 {
	return u.ID
}

func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

func (u *User) IsManagement() bool {
	return u.Department == DepartmentManagement
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                    u.ID,
		UserNo:                u.UserNo,
		Username:              u.Username,
		Email:                 u.Email,
		Name:                  u.Name,
		Surname:               u.Surname,
		Role:                  u.Role,
		Department:            u.Department,
		Admin:                 u.Admin,
		CanSeeAllBranches:     u.CanSeeAllBranches,
		SalesRepresentative:   u.SalesRepresentative,
		SeesStockCosts:        u.SeesStockCosts,
		RestrictedFinanceUser: u.RestrictedFinanceUser,
		SystemAuthority:       u.SystemAuthority,
	}
}

// SameUsername reports whether two records claim the same non-empty username.
func SameUsername(a, b User) bool {
	return a.Username != "" && a.Username == b.Username
}
