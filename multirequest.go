package main

import (
	"sync"
)

// RequestMultiple runs fns concurrently and returns the first error any of
// them reported.
func RequestMultiple(fns ...func() error) error {
	e := make(chan error, len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i := range fns {
		go func(j int) {
			if err := fns[j](); err != nil {
				e <- err
			}
			wg.Done()
		}(i)
	}
	wg.Wait()
	select {
	case x := <-e:
		return x
	default:
	}
	return nil
}
