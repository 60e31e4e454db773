package packetio

import (
	"container/heap"
	"io"
	"log/slog"
)

// JitterReader reorders RTP packets by sequence number before returning
// their payloads. It keeps up to depth packets queued; a packet that
// arrives after a later one has already been returned is dropped as late,
// and a gap in the sequence is counted as loss.
type JitterReader struct {
	r     *RTPReader
	depth int

	heap    seqHeap
	next    uint16
	started bool
	eof     bool

	lost int
	late int
}

// NewJitterReader returns a JitterReader over r. A depth below 1 is treated
// as 1, which only drops late and duplicate packets.
func NewJitterReader(r *RTPReader, depth int) *JitterReader {
	return &JitterReader{r: r, depth: max(depth, 1)}
}

func (j *JitterReader) ReadPacket() ([]byte, error) {
	for {
		if err := j.fill(); err != nil {
			return nil, err
		}
		if j.heap.Len() == 0 {
			return nil, io.EOF
		}
		e := heap.Pop(&j.heap).(*seqPacket)
		if j.started {
			if seqBefore(e.seq, j.next) {
				j.drop(e.seq)
				continue
			}
			if gap := e.seq - j.next; gap != 0 {
				j.lost += int(gap)
				slog.Debug("packetio: packet loss", "from", j.next, "missing", gap)
			}
		}
		j.next = e.seq + 1
		j.started = true
		return e.payload, nil
	}
}

func (j *JitterReader) fill() error {
	for !j.eof && j.heap.Len() < j.depth {
		p, err := j.r.ReadPacket()
		if err == io.EOF {
			j.eof = true
			break
		}
		if err != nil {
			return err
		}
		seq := j.r.Header().SequenceNumber
		if j.started && seqBefore(seq, j.next) {
			j.drop(seq)
			continue
		}
		heap.Push(&j.heap, &seqPacket{seq: seq, payload: p})
	}
	return nil
}

func (j *JitterReader) drop(seq uint16) {
	j.late++
	slog.Debug("packetio: drop late packet", "seq", seq, "next", j.next)
}

// Lost returns the number of sequence numbers skipped so far.
func (j *JitterReader) Lost() int { return j.lost }

// Late returns the number of late or duplicate packets dropped so far.
func (j *JitterReader) Late() int { return j.late }

// seqBefore reports whether a precedes b, allowing for wraparound.
func seqBefore(a, b uint16) bool {
	return int16(a-b) < 0
}

type seqPacket struct {
	seq     uint16
	payload []byte
}

type seqHeap []*seqPacket

func (h seqHeap) Len() int           { return len(h) }
func (h seqHeap) Less(i, j int) bool { return seqBefore(h[i].seq, h[j].seq) }
func (h seqHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *seqHeap) Push(x any) {
	*h = append(*h, x.(*seqPacket))
}

func (h *seqHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}
