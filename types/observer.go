package types

// Observer is notified with the outcome of every probe cycle. Each
// call receives the value returned by the previous observer and
// returns the value handed to the next one. Returning nil passes the
// received value through unchanged.
//
// Observers are called from the transport goroutine, never from the
// goroutine that called Check; any state they share must be guarded.
type Observer interface {
	ProcessError(err CheckError) CheckError
	ProcessResponse(resp *Response) *Response
}

// Orderer is implemented by observers that care about their position
// in the chain. Lower values run first. Observers without it get 0.
type Orderer interface {
	Order() int
}

// OrderLast is used by the polling loop so it sees the final value.
const OrderLast = int(^uint(0) >> 1)

// OrderOf returns the ordering key of o.
func OrderOf(o Observer) int {
	if ord, ok := o.(Orderer); ok {
		return ord.Order()
	}
	return 0
}

// ObserverFuncs adapts plain functions to an Observer. Nil functions
// pass values through.
type ObserverFuncs struct {
	OnError    func(CheckError) CheckError
	OnResponse func(*Response) *Response
	Priority   int
}

func (f ObserverFuncs) ProcessError(err CheckError) CheckError {
	if f.OnError == nil {
		return err
	}
	return f.OnError(err)
}

func (f ObserverFuncs) ProcessResponse(resp *Response) *Response {
	if f.OnResponse == nil {
		return resp
	}
	return f.OnResponse(resp)
}

func (f ObserverFuncs) Order() int { return f.Priority }
