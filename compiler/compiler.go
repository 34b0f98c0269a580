package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/qfs/radix"
)

//go:embed templates/*.txt
var defaultTemplates embed.FS

// Compiler renders an opus through text templates. The templates get an
// *OpusMacros as their data and the sprig functions.
type Compiler struct {
	Template *template.Template
	PPQN     int
}

// New returns a new compiler using the built-in templates
func New(ppqn int) (*Compiler, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(defaultTemplates, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf(`could not parse the built-in templates: %v`, err)
	}
	return &Compiler{Template: tmpl, PPQN: ppqn}, nil
}

func NewFromTemplates(ppqn int, templateDirectory string) (*Compiler, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Compiler{Template: tmpl, PPQN: ppqn}, nil
}

// TemplateNames lists the templates the compiler can execute.
func (com *Compiler) TemplateNames() []string {
	var ret []string
	for _, t := range com.Template.Templates() {
		if t.Name() != "base" {
			ret = append(ret, t.Name())
		}
	}
	sort.Strings(ret)
	return ret
}

func (com *Compiler) Compile(o *radix.Opus, templateName string) (string, error) {
	macros, err := NewOpusMacros(o, com.PPQN)
	if err != nil {
		return "", err
	}
	result := bytes.NewBufferString("")
	if err := com.Template.ExecuteTemplate(result, templateName, macros); err != nil {
		return "", fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
	}
	return result.String(), nil
}
