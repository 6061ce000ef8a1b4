package pipe_test

import (
	"context"
	"fmt"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/signal"
)

// Example streams a synthetic tone through a gain stage into a stats sink
// and a multiroom buffer serving one delayed room.
func Example() {
	source := pipe.NewSource[float64](
		pipe.Sine(440, 1.0), 48000, signal.BitDepth32, 4800,
		pipe.WithChunkLimit(10),
	)
	gain := pipe.NewGain[float64](signal.DBFromLinear(0.5))
	stats := pipe.NewStatsSink[float64]()
	buffer := pipe.NewBuffer[float64](8)

	for _, err := range []error{
		pipe.Wire[float64](source, gain),
		pipe.Wire[float64](gain, stats),
		pipe.Wire[float64](gain, buffer),
	} {
		if err != nil {
			fmt.Println(err)
			return
		}
	}
	room := buffer.Subscribe(2, 10)

	if err := pipe.Run[float64](context.Background(), source); err != nil {
		fmt.Println(err)
		return
	}

	var orders []uint64
	for c := range room {
		orders = append(orders, c.Order)
	}
	fmt.Println("frames:", stats.Stats().Frames)
	fmt.Println("room first order:", orders[0], "last order:", orders[len(orders)-1])
	// Output:
	// frames: 48000
	// room first order: 0 last order: 7
}
