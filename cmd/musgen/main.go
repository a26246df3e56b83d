package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/quarry"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// go run from cmd/musgen lands two levels below the module root
	if strings.HasSuffix(cwd, filepath.Join("cmd", "musgen")) {
		if err := os.Chdir(filepath.Join("..", "..")); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/quarry"),
	)
	if err != nil {
		panic(err)
	}

	// Published is stored as Unix micros
	err = g.AddStruct(reflect.TypeFor[quarry.Entry](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(typeops.WithTimeUnit(typeops.Micro)))
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./entry_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
