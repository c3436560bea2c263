package scan

import "context"

// feedBuffer bounds how many decoded payloads can queue between the feed
// and the session loop. At 10 decode attempts per second this is more
// than a second of headroom.
const feedBuffer = 16

// ChannelDecoder adapts an external decode feed (here the HTTP decode
// endpoint; a camera pipeline would work the same way) to the Decoder
// interface.
type ChannelDecoder struct {
	payloads chan string
	stop     chan struct{}
}

func NewChannelDecoder() *ChannelDecoder {
	return &ChannelDecoder{
		payloads: make(chan string, feedBuffer),
		stop:     make(chan struct{}),
	}
}

func (d *ChannelDecoder) Start(ctx context.Context) (<-chan string, error) {
	return d.payloads, nil
}

func (d *ChannelDecoder) Stop() {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
}

// Feed delivers one decoded payload. Payloads that arrive while the
// buffer is full are dropped, matching the no-queuing rule for cooldown.
func (d *ChannelDecoder) Feed(payload string) error {
	select {
	case <-d.stop:
		return ErrSessionStopped
	default:
	}

	select {
	case d.payloads <- payload:
		return nil
	default:
		return nil
	}
}
