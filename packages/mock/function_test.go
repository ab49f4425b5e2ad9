package mock

import (
	"errors"
	"testing"

	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitmock/packages/assertions"
)

func failures(c *assertions.Collector) []string {
	var messages []string
	for _, a := range c.Snapshot() {
		if a.Failed() {
			messages = append(messages, a.Message)
		}
	}
	return messages
}

func TestFunction_Call(t *testing.T) {
	t.Run("matching arguments return the declared value", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("greet", c, Call{Arguments: []any{"Alice"}, Return: "Hello, Alice"})

		got, err := f.Call("Alice")
		require.NoError(t, err)
		assert.Equal(t, "Hello, Alice", got)
		assert.Equal(t, 1, f.Calls())
		assert.Equal(t, 0, f.Remaining())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("args shorthand", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("add", c, Args{1, 2})

		got, err := f.Call(1, 2)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Empty(t, failures(c))
	})

	t.Run("wrong argument value", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("greet", c, Args{"Bob"})

		_, err := f.Call("Carol")
		require.NoError(t, err)
		assert.Equal(t, []string{
			`Wrong "greet" function argument #1 value. Expected "Bob" got "Carol", call #1`,
		}, failures(c))
		assert.Equal(t, MethodDeepEqual, c.Snapshot()[0].Method)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("greet", c, Args{"Bob"})

		_, _ = f.Call("Bob", "Alice")
		assert.Equal(t, []string{
			`Wrong "greet" function argument count. Expected 1, got 2, call #1`,
		}, failures(c))
	})

	t.Run("more calls than expected", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("greet", c, Args{"Alice"})

		_, _ = f.Call("Alice")
		got, err := f.Call("Alice")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, []string{
			`Calling "greet" function more times, than expected. Call #2`,
		}, failures(c))
		assert.Equal(t, MethodMockFunction, c.Snapshot()[0].Method)
	})

	t.Run("throw is returned as error", func(t *testing.T) {
		boom := errors.New("boom")
		c := assertions.NewCollector()
		f := NewFunction("load", c, Call{Throw: boom, Return: "ignored"})

		got, err := f.Call()
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	})

	t.Run("handler receives the raw arguments", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("sum", c, Handler(func(args ...any) (any, error) {
			return args[0].(int) + args[1].(int), nil
		}))

		got, err := f.Func()(2, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, got)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("side effect runs after argument checks", func(t *testing.T) {
		var order []string
		c := assertions.NewCollector(assertions.OnRecord(func(*assertions.Assertion) {
			order = append(order, "check")
		}))
		f := NewFunction("save", c, Call{
			Arguments:  []any{"x"},
			SideEffect: func() { order = append(order, "effect") },
		})

		_, _ = f.Call("y")
		assert.Equal(t, []string{"check", "effect"}, order)
	})
}

func TestFunction_Matchers(t *testing.T) {
	c := assertions.NewCollector()
	f := NewFunction("store", c,
		Args{gomega.HaveLen(3)},
		Args{gomega.HaveKeyWithValue("id", 7)},
	)

	_, _ = f.Call([]int{1, 2, 3})
	_, _ = f.Call(map[string]int{"id": 8})

	msgs := failures(c)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], `Wrong "store" function argument #1 value`)
	assert.Contains(t, msgs[0], "call #2")
}

func TestMatchValue(t *testing.T) {
	ok, _ := MatchValue(map[string]any{"a": []int{1}}, map[string]any{"a": []int{1}})
	assert.True(t, ok)

	ok, detail := MatchValue("b", "a")
	assert.False(t, ok)
	assert.Contains(t, detail, `"a"`)

	ok, detail = MatchValue("abc", gomega.HavePrefix("x"))
	assert.False(t, ok)
	assert.NotEmpty(t, detail)
}

func TestFunction_VerifyAndStep(t *testing.T) {
	c := assertions.NewCollector()
	f := NewFunction("greet", c, Args{"Alice"}, Args{"Bob"})

	_, _ = f.Call("Alice")
	f.Step(Args{"Carol"})

	assert.Equal(t, []string{
		`Expected 1 more "greet" function calls, than actually ran`,
	}, failures(c))
	assert.Equal(t, 1, f.Remaining())

	_, _ = f.Call("Carol")
	assert.Equal(t, 0, f.Verify())
	assert.Len(t, failures(c), 1)
}

func TestFunction_Construct(t *testing.T) {
	type person struct {
		Name string
		Age  int64
	}

	t.Run("struct receiver", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("Person", c, Call{
			Arguments: []any{"Alice"},
			Construct: map[string]any{"name": "Alice", "Age": 30},
		})

		p := &person{}
		_, err := f.Construct(p, "Alice")
		require.NoError(t, err)
		assert.Equal(t, person{Name: "Alice", Age: 30}, *p)
	})

	t.Run("map receiver", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("Thing", c, Call{Construct: map[string]any{"kind": "widget"}})

		m := map[string]any{}
		_, err := f.Construct(m)
		require.NoError(t, err)
		assert.Equal(t, "widget", m["kind"])
	})

	t.Run("nil map receiver", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("Thing", c, Call{Construct: map[string]any{"a": 1}})

		assert.NotPanics(t, func() {
			_, err := f.Construct(map[string]any(nil))
			assert.ErrorIs(t, err, ErrInvalidReceiver)
		})
	})

	t.Run("unknown field", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("Person", c, Call{Construct: map[string]any{"email": "a@b.c"}})

		_, err := f.Construct(&person{})
		assert.ErrorIs(t, err, ErrInvalidReceiver)
	})

	t.Run("plain call ignores construct", func(t *testing.T) {
		c := assertions.NewCollector()
		f := NewFunction("Person", c, Call{Construct: map[string]any{"name": "x"}, Return: 1})

		got, err := f.Call()
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})
}
