package registry

import "github.com/vi/trait-enumizer/internal/models"

// ClassRegistry defines the interface for resolving returnval specs into
// channel classes
type ClassRegistry interface {
	Register(class models.ChannelClass) error
	Get(name string) (models.ChannelClass, bool)
	Resolve(spec, dir string) (*models.ChannelClass, error)
	List() []string
}

// Inspector checks that a package satisfies the channel class contract
type Inspector interface {
	Inspect(dir, importPath string) (*models.ChannelClass, error)
}
