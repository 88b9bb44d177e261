package evoke_test

import (
	"fmt"

	"github.com/dshills/evoke"
	"github.com/dshills/evoke/loop"
)

type fileSaved struct {
	Path string
}

func (fileSaved) EventArgs() {}

func Example() {
	saved := evoke.New[fileSaved](evoke.WithName("file.saved"))

	saved.Subscribe(func(sender any, args fileSaved) error {
		fmt.Println("saved", args.Path)
		return nil
	})

	if err := saved.Raise(nil, fileSaved{Path: "main.go"}); err != nil {
		fmt.Println("raise failed:", err)
	}
	// Output:
	// saved main.go
}

func Example_owningLoop() {
	ui := loop.New(loop.WithName("ui"))
	if err := ui.Start(); err != nil {
		fmt.Println("start failed:", err)
		return
	}

	saved := evoke.New[fileSaved](evoke.WithName("file.saved"))

	// The handler is bound to the ui loop; raising from any other goroutine
	// marshals it there and blocks until it has run.
	saved.Subscribe(func(sender any, args fileSaved) error {
		fmt.Println("drawn on", ui.Name(), "for", args.Path)
		return nil
	}, evoke.WithTarget(ui))

	if err := saved.Raise(nil, fileSaved{Path: "main.go"}); err != nil {
		fmt.Println("raise failed:", err)
	}

	ui.Dispose()
	// Output:
	// drawn on ui for main.go
}

func ExampleEvent_Raise_tornDownTarget() {
	ui := loop.New()
	ui.Dispose()

	saved := evoke.New[fileSaved]()
	saved.Subscribe(func(any, fileSaved) error {
		fmt.Println("never runs")
		return nil
	}, evoke.WithTarget(ui))

	// The disposed target is skipped silently; the raise is not a failure.
	err := saved.Raise(nil, fileSaved{Path: "main.go"})
	fmt.Println("err:", err)
	// Output:
	// err: <nil>
}
