// internal/nodea/fakes_test.go
package nodea

import "errors"

type fakeSampler struct {
	v   uint16
	err error
}

func (f *fakeSampler) Sample() (uint16, error) { return f.v, f.err }

type fakeKeypad struct {
	held byte
	err  error
}

func (f *fakeKeypad) Key() (byte, error) { return f.held, f.err }

type fakeRemote struct {
	queue []byte
}

func (f *fakeRemote) Receive() (byte, bool) {
	if len(f.queue) == 0 {
		return 0, false
	}
	b := f.queue[0]
	f.queue = f.queue[1:]
	return b, true
}

type fakeSender struct {
	ready bool
	fail  bool
	sent  []byte
}

func (f *fakeSender) Ready() bool { return f.ready }

func (f *fakeSender) Send(b byte) error {
	if f.fail {
		return errors.New("line error")
	}
	f.sent = append(f.sent, b)
	return nil
}

type fakeDisplay struct {
	writes []string
}

func (f *fakeDisplay) Clear() {}

func (f *fakeDisplay) WriteAt(col int, s string) { f.writes = append(f.writes, s) }
