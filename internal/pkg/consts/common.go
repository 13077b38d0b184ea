package consts

// BaseURLKey 请求上下文中的站点基础地址
type BaseURLKey struct{}

var BaseURL = BaseURLKey{}

const (
	RoleKey   = "roles"
	UserIDKey = "user_id"
)

const (
	DefaultImage = "public/images/default.png"
)
