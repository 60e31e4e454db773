// Package packetio frames Opus packets on a byte stream.
//
// Four framings are supported:
//
//   - lenprefix: [u16 LE length][payload], the format used by Discord-style
//     voice senders
//   - ogg: an Ogg Opus file with OpusHead and OpusTags headers
//   - rtp: RTP packets (payload type 111, 48 kHz clock), each length-prefixed
//   - msgpack: a stream of {seq, data} MessagePack records
//
// Every Writer has WritePacket and Close; every Reader has ReadPacket, which
// returns io.EOF once the stream ends.
package packetio
