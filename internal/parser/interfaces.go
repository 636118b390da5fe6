package parser

import (
	"go/ast"

	"github.com/vi/trait-enumizer/internal/models"
)

// InterfaceAnalyzer extracts annotated interfaces from Go sources
type InterfaceAnalyzer interface {
	ParseDirectory(path string) (*PackageResult, error)
	ParseSource(filename, source string) (*PackageResult, error)
	AnalyzeFiles(files []*ast.File) (*PackageResult, error)
	SetDefaultReturnVal(class string)
}

// PackageResult holds the annotated interfaces of one package in source order
type PackageResult struct {
	Name       string
	Dir        string
	Interfaces []*models.Interface
}
