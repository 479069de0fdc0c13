package user

// Roles mirror the values stored in the users.role column.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
)

type User struct {
	ID        int    `json:"userId"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
