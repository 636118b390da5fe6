package generator

import "github.com/vi/trait-enumizer/internal/models"

// CodeGenerator defines the interface for generating enumizer output files
type CodeGenerator interface {
	GenerateFile(pkgName, sourcePath string, ifaces []*models.Interface) (*GeneratedFile, error)
	OutputPath(sourcePath string) string
}

// Stats counts the generated artifacts of one file
type Stats struct {
	Interfaces  int
	Variants    int
	Dispatchers int
	Resultified int
	Proxies     int
	Adapters    int
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Interfaces += other.Interfaces
	s.Variants += other.Variants
	s.Dispatchers += other.Dispatchers
	s.Resultified += other.Resultified
	s.Proxies += other.Proxies
	s.Adapters += other.Adapters
}

// GeneratedFile is the rendered output for one annotated source file
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     []byte
	Stats       Stats
}
