//go:build js && wasm

package cookie

import (
	"fmt"
	"syscall/js"
)

// DocumentJar is the browser's document.cookie.
type DocumentJar struct{}

// NewDocumentJar returns a jar bound to document.cookie.
func NewDocumentJar() *DocumentJar {
	return &DocumentJar{}
}

// Cookie implements Jar.
func (DocumentJar) Cookie() (raw string, err error) {
	defer recoverJS(&err)
	return js.Global().Get("document").Get("cookie").String(), nil
}

// SetCookie implements Jar.
func (DocumentJar) SetCookie(line string) (err error) {
	defer recoverJS(&err)
	js.Global().Get("document").Set("cookie", line)
	return nil
}

func recoverJS(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("document.cookie: %v", r)
	}
}
