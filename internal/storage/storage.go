package storage

// Storage is the durable client-side key/value store. The session and the
// cart persist through it so a new process starts with whatever state the
// previous one left behind.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Well-known keys written by the session store.
const (
	KeyToken    = "token"
	KeyUserRole = "userRole"
	KeyUsuario  = "usuario"
	KeyCart     = "cart"
)
