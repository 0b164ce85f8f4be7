package main

import (
	"github.com/bgricker/unitkit/internal/selftest"
	"github.com/bgricker/unitkit/pkg/cli"
	"github.com/bgricker/unitkit/pkg/mock"
)

func main() {
	mocks := mock.NewRegistry()
	cli.Execute(cli.App{
		Assembly: selftest.Catalog(mocks),
		Mocks:    mocks,
	})
}
