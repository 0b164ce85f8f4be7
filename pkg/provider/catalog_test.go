package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calculator struct{ total int }

func TestCatalogPreservesRegistrationOrder(t *testing.T) {
	c := NewCatalog("demo")
	calc := c.Fixture("math", "Calculator", func() any { return &calculator{} })
	calc.AddTest("Subtracts", nil)
	calc.AddSetup("Reset", nil)
	calc.AddTest("Adds", nil, InCategory("fast"), Ignored("later"))
	c.Type("math", "Helpers")
	c.Func("math", "Free", func() error { return nil })

	var names []string
	for _, typ := range c.Types() {
		names = append(names, typ.FullName())
	}
	assert.Equal(t, []string{"math.Calculator", "math.Helpers", "math.funcs"}, names)

	var methods []string
	for _, m := range c.Methods(calc) {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"Subtracts", "Reset", "Adds"}, methods)

	adds := calc.Method("Adds")
	require.NotNil(t, adds)
	assert.True(t, adds.Markers.Test)
	assert.Equal(t, "fast", adds.Markers.Category)
	assert.Equal(t, "later", adds.Markers.IgnoreReason)
	assert.True(t, calc.Method("Reset").Markers.Setup)
	assert.False(t, calc.Method("Reset").Markers.Test)

	assert.True(t, c.IsFixture(calc))
	assert.False(t, c.IsFixture(c.Lookup("math.Helpers")))
	assert.Equal(t, "math.funcs.Free", c.Lookup("math.funcs").Method("Free").FullName())
}

func TestFreeFuncsShareHolder(t *testing.T) {
	c := NewCatalog("demo")
	c.Func("ns", "A", func() error { return nil })
	c.Func("ns", "B", func() error { return nil })
	c.Func("other", "C", func() error { return nil })

	require.Len(t, c.Types(), 2)
	assert.Len(t, c.Methods(c.Lookup("ns.funcs")), 2)
}

func TestConstructorProvider(t *testing.T) {
	c := NewCatalog("demo")
	withCtor := c.Fixture("ns", "WithCtor", func() any { return &calculator{total: 3} })
	without := c.Fixture("ns", "Without", nil)

	inst, err := ConstructorProvider{}.NewInstance(withCtor)
	require.NoError(t, err)
	assert.Equal(t, 3, inst.(*calculator).total)

	_, err = ConstructorProvider{}.NewInstance(without)
	assert.ErrorIs(t, err, ErrNoConstructor)
}

func TestDisplayName(t *testing.T) {
	c := NewCatalog("demo")
	typ := c.Fixture("ns", "T", nil)
	assert.Equal(t, "plain", typ.AddTest("plain", nil).DisplayName())
	assert.Equal(t, "Pretty name", typ.AddTest("ugly_name", nil, Named("Pretty name")).DisplayName())
}
