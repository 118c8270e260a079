package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pillarbook/internal/message"
)

// gencap writes a synthetic libpcap capture file carrying feed packets,
// for exercising pillarbook without a live or recorded market-data feed.
func main() {
	if err := run(); err != nil {
		log.Printf("gencap: %v", err)
		os.Exit(1)
	}
}

func run() error {
	outPath := flag.String("out", "testdata/synthetic.pcap", "output capture file path")
	symbols := flag.Int("symbols", 3, "number of distinct symbols to generate")
	ticks := flag.Int("ticks", 20, "number of order events per symbol")
	basePrice := flag.Uint("base-price", 10000, "base price, in scaled integer units")
	flag.Parse()

	if *symbols <= 0 || *ticks <= 0 {
		return fmt.Errorf("symbols and ticks must be > 0")
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	if err := writeGlobalHeader(w); err != nil {
		return err
	}

	gen := newGenerator(uint32(*basePrice))
	seq := uint32(0)
	for i := 0; i < *symbols; i++ {
		mapping := gen.symbolMapping(uint32(i))
		if err := writeRecord(w, encodePacket(seq, mapping)); err != nil {
			return err
		}
		seq++
	}
	for t := 0; t < *ticks; t++ {
		for i := 0; i < *symbols; i++ {
			add := gen.addOrder(uint32(i), t)
			if err := writeRecord(w, encodePacket(seq, add)); err != nil {
				return err
			}
			seq++

			exec := gen.orderExecution(uint32(i), add)
			if err := writeRecord(w, encodePacket(seq, exec)); err != nil {
				return err
			}
			seq++
		}
	}

	log.Printf("wrote %d records for %d symbols to %s", seq, *symbols, *outPath)
	return nil
}

// generator creates synthetic order traffic across a fixed symbol set,
// cycling prices and order IDs deterministically.
type generator struct {
	baseOrderID uint64
	basePrice   uint32
}

func newGenerator(basePrice uint32) *generator {
	return &generator{baseOrderID: 1, basePrice: basePrice}
}

func (g *generator) symbolMapping(symbolIndex uint32) message.Payload {
	return message.SymbolIndexMapping{
		SymbolIndex:    symbolIndex,
		SymbolText:     fmt.Sprintf("SYM%d", symbolIndex),
		PriceScaleCode: 2,
		RoundLotSize:   100,
	}
}

func (g *generator) addOrder(symbolIndex uint32, tick int) message.AddOrder {
	g.baseOrderID++
	side := message.SideBuy
	if tick%2 == 1 {
		side = message.SideSell
	}
	price := g.basePrice + uint32(tick%5)*10 + symbolIndex
	return message.AddOrder{
		SymbolIndex: symbolIndex,
		OrderID:     g.baseOrderID,
		Price:       price,
		Volume:      100,
		Side:        side,
		FirmID:      [5]byte{'G', 'E', 'N', ' ', ' '},
	}
}

func (g *generator) orderExecution(symbolIndex uint32, add message.AddOrder) message.OrderExecution {
	return message.OrderExecution{
		SymbolIndex: symbolIndex,
		OrderID:     add.OrderID,
		TradeID:     add.OrderID,
		Price:       add.Price,
		Volume:      add.Volume,
	}
}

// encodePacket wraps one message payload in a feed packet with the
// given sequence_number, matching the §4.2 packet header layout.
func encodePacket(seqNum uint32, p message.Payload) []byte {
	body := message.Encode(nil, p)
	const packetHeaderLen = 16
	const msgHeaderLen = 4
	msgSize := msgHeaderLen + len(body)
	packetSize := packetHeaderLen + msgSize

	buf := make([]byte, packetSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(packetSize))
	buf[2] = 0 // delivery_flag
	buf[3] = 1 // num_messages
	binary.LittleEndian.PutUint32(buf[4:8], seqNum)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(time.Now().UnixNano()))

	binary.LittleEndian.PutUint16(buf[16:18], uint16(msgSize))
	binary.LittleEndian.PutUint16(buf[18:20], uint16(p.Tag()))
	copy(buf[20:], body)
	return buf
}

// wrapFrame builds a link+network+datagram header around a feed packet
// payload, matching §4.1's accepted link type (0x0800) and network
// protocol (17) so wireframe.Extract accepts it.
func wrapFrame(packet []byte) []byte {
	const linkHeaderLen = 14
	const netHeaderLen = 20
	const datagramHeaderLen = 8

	total := linkHeaderLen + netHeaderLen + datagramHeaderLen + len(packet)
	frame := make([]byte, total)

	binary.BigEndian.PutUint16(frame[12:14], 0x0800)

	netStart := linkHeaderLen
	frame[netStart] = 0x45 // version 4, IHL 5 (20-byte header)
	frame[netStart+9] = 17 // protocol: datagram
	binary.BigEndian.PutUint16(frame[netStart+2:netStart+4], uint16(netHeaderLen+datagramHeaderLen+len(packet)))

	datagramStart := netStart + netHeaderLen
	binary.BigEndian.PutUint16(frame[datagramStart+4:datagramStart+6], uint16(datagramHeaderLen+len(packet)))

	copy(frame[datagramStart+datagramHeaderLen:], packet)
	return frame
}

const (
	pcapMagicLittleEndian = 0xa1b2c3d4
	pcapVersionMajor      = 2
	pcapVersionMinor      = 4
)

func writeGlobalHeader(w *bufio.Writer) error {
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:4], pcapMagicLittleEndian)
	binary.LittleEndian.PutUint16(buf[4:6], pcapVersionMajor)
	binary.LittleEndian.PutUint16(buf[6:8], pcapVersionMinor)
	binary.LittleEndian.PutUint32(buf[16:20], 65535) // snaplen
	_, err := w.Write(buf[:])
	return err
}

func writeRecord(w *bufio.Writer, packet []byte) error {
	frame := wrapFrame(packet)
	now := time.Now()

	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(now.Unix()))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(now.Nanosecond()/1000))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(frame)))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(frame)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}
