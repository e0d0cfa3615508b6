package storage_test

import (
	"context"
	"fmt"

	"github.com/neatjs/neat/pkg/cookie"
	"github.com/neatjs/neat/pkg/storage"
	"github.com/neatjs/neat/pkg/stores"
)

func ExampleNew() {
	ctx := context.Background()

	local := stores.NewMemoryStore()
	cookies := storage.NewCookieBackend(cookie.NewStore(cookie.NewMemoryJar()), 0)

	f, err := storage.New(local, cookies)
	if err != nil {
		panic(err)
	}

	f.Set(ctx, "theme", "dark")
	v, ok := f.Get(ctx, "theme")
	fmt.Println(v, ok)

	keys, _ := local.Keys(ctx, "")
	fmt.Println(keys)
	// Output:
	// dark true
	// [custom_theme]
}

func ExampleFacade_Set_fallback() {
	ctx := context.Background()

	local := stores.NewMemoryStore()
	local.SetDisabled(true)

	jar := cookie.NewMemoryJar()
	f, _ := storage.New(local, storage.NewCookieBackend(cookie.NewStore(jar), 0))

	f.Set(ctx, "greeting", "hi there")
	raw, _ := jar.Cookie()
	fmt.Println(raw)
	// Output: custom_greeting=hi%20there
}
