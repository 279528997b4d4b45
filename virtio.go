package main

// VirtIO MMIO register offsets, relative to VirtioBase, per the VirtIO
// 1.1 MMIO transport spec's legacy interface: probe/feature-negotiation
// registers plus the queue registers (QueueNumMax/QueueNum/QueuePFN/
// QueueNotify/InterruptStatus/InterruptACK) needed to drive a real
// virtqueue.
const (
	VirtioBase = 0x1000_1000
	VirtioEnd  = 0x1000_1FFF

	virtioMagic           = VirtioBase + 0x000
	virtioVersion         = VirtioBase + 0x004
	virtioDeviceID        = VirtioBase + 0x008
	virtioVendorID        = VirtioBase + 0x00C
	virtioDeviceFeatures  = VirtioBase + 0x010
	virtioDriverFeatures  = VirtioBase + 0x020
	virtioGuestPageSize   = VirtioBase + 0x028
	virtioQueueSel        = VirtioBase + 0x030
	virtioQueueNumMax     = VirtioBase + 0x034
	virtioQueueNum        = VirtioBase + 0x038
	virtioQueueAlign      = VirtioBase + 0x03C
	virtioQueuePFN        = VirtioBase + 0x040
	virtioQueueNotify     = VirtioBase + 0x050
	virtioInterruptStatus = VirtioBase + 0x060
	virtioInterruptACK    = VirtioBase + 0x064
	virtioStatus          = VirtioBase + 0x070

	virtioMagicValue = 0x7472_6976 // "virt"
	virtioDeviceBlk  = 2
	virtioVendorQEMU = 0x554d_4551

	virtioQueueNumMaxValue = 8 // descriptor slots this device exposes per queue

	descFlagNext  = 1 // VIRTQ_DESC_F_NEXT
	descFlagWrite = 2 // VIRTQ_DESC_F_WRITE

	virtioBlkTypeIn       = 0 // VIRTIO_BLK_T_IN, a guest read
	virtioBlkStatusOK     = 0
	virtioBlkStatusUnsupp = 2
)

// Virtio is a VirtIO MMIO block device using the legacy (pre-1.0)
// transport: the probe/feature-negotiation registers, plus a single
// request queue driven by QueueNotify. A guest block read walks the
// legacy virtqueue layout (descriptor table, avail ring, page-aligned
// used ring) to find a 3-descriptor virtio-blk request (header, data,
// status) and services it synchronously against the backing image
// supplied via --drive.
type Virtio struct {
	status        uint64
	driverFeat    uint64
	guestPageSize uint64
	queueSel      uint64

	queueNum        uint64
	queuePFN        uint64
	lastAvailIdx    uint16
	interruptStatus uint64

	bus     *Bus
	backing []byte // nil if --drive was not given
}

// NewVirtio returns a block device with no backing file attached.
func NewVirtio() *Virtio {
	return &Virtio{}
}

// AttachBacking wires a flat disk image for sector reads. Without this,
// the device still answers the MMIO probe but every sector reads as zero.
func (v *Virtio) AttachBacking(data []byte) {
	v.backing = data
}

// AttachBus gives the device bus-mastering access to guest DRAM, the
// same way Bus.AttachTimer and Bus.AttachUartDebug wire auxiliary access
// after construction. Without it, QueueNotify is a no-op: there is
// nowhere to read the descriptor ring from.
func (v *Virtio) AttachBus(bus *Bus) {
	v.bus = bus
}

// ReadSector returns 512 bytes starting at the given sector, or all
// zeroes if no backing file is attached or the read runs past its end.
func (v *Virtio) ReadSector(sector uint64) [512]byte {
	var buf [512]byte
	if v.backing == nil {
		return buf
	}
	off := sector * 512
	if off >= uint64(len(v.backing)) {
		return buf
	}
	copy(buf[:], v.backing[off:])
	return buf
}

func (v *Virtio) Load(size, addr uint64) (uint64, error) {
	switch addr {
	case virtioMagic:
		return virtioMagicValue, nil
	case virtioVersion:
		return 1, nil
	case virtioDeviceID:
		return virtioDeviceBlk, nil
	case virtioVendorID:
		return virtioVendorQEMU, nil
	case virtioDeviceFeatures:
		return 0, nil
	case virtioStatus:
		return v.status, nil
	case virtioDriverFeatures:
		return v.driverFeat, nil
	case virtioGuestPageSize:
		return v.guestPageSize, nil
	case virtioQueueSel:
		return v.queueSel, nil
	case virtioQueueNumMax:
		return virtioQueueNumMaxValue, nil
	case virtioQueuePFN:
		return v.queuePFN, nil
	case virtioInterruptStatus:
		return v.interruptStatus, nil
	default:
		return 0, &EmuError{Kind: InvalidAddress, Msg: "invalid read to virtio address"}
	}
}

func (v *Virtio) Store(size, addr, val uint64) error {
	switch addr {
	case virtioStatus:
		v.status = val
	case virtioDriverFeatures:
		v.driverFeat = val
	case virtioGuestPageSize:
		v.guestPageSize = val
	case virtioQueueSel:
		v.queueSel = val
	case virtioQueueNum:
		v.queueNum = val
	case virtioQueueAlign:
		// legacy alignment is fixed at the guest page size in this
		// device; the register is accepted and ignored.
	case virtioQueuePFN:
		v.queuePFN = val
	case virtioQueueNotify:
		v.processQueue()
	case virtioInterruptACK:
		v.interruptStatus &^= val
	default:
		return &EmuError{Kind: InvalidAddress, Msg: "invalid write to virtio address"}
	}
	return nil
}

// legacyQueueLayout returns the guest-physical addresses of the
// descriptor table, avail ring, and used ring for the currently
// configured queue, per the VirtIO legacy MMIO layout: the used ring
// starts at the next guest-page-size boundary after the avail ring.
func (v *Virtio) legacyQueueLayout() (descTable, avail, used uint64) {
	pageSize := v.guestPageSize
	if pageSize == 0 {
		pageSize = 4096
	}
	descTable = v.queuePFN * pageSize
	avail = descTable + v.queueNum*16
	used = alignUp(avail+4+v.queueNum*2, pageSize)
	return descTable, avail, used
}

func alignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

// processQueue is QueueNotify's handler: it walks every newly-available
// descriptor chain since the last notification and services each one as
// a virtio-blk request.
func (v *Virtio) processQueue() {
	if v.bus == nil || v.queuePFN == 0 || v.queueNum == 0 {
		return
	}
	descTable, avail, used := v.legacyQueueLayout()

	availIdxRaw, err := v.bus.Load(2, avail+2)
	if err != nil {
		return
	}
	availIdx := uint16(availIdxRaw)

	for v.lastAvailIdx != availIdx {
		slot := avail + 4 + uint64(v.lastAvailIdx%uint16(v.queueNum))*2
		headRaw, err := v.bus.Load(2, slot)
		if err != nil {
			return
		}
		head := uint16(headRaw)

		written := v.serviceRequest(descTable, head)

		usedIdxRaw, err := v.bus.Load(2, used+2)
		if err != nil {
			return
		}
		usedIdx := uint16(usedIdxRaw)
		entry := used + 4 + uint64(usedIdx%uint16(v.queueNum))*8
		if err := v.bus.Store(4, entry, uint64(head)); err != nil {
			return
		}
		if err := v.bus.Store(4, entry+4, written); err != nil {
			return
		}
		if err := v.bus.Store(2, used+2, uint64(usedIdx+1)); err != nil {
			return
		}

		v.lastAvailIdx++
		v.interruptStatus |= 1
	}
}

type virtqDesc struct {
	addr  uint64
	len   uint32
	flags uint16
	next  uint16
}

func (v *Virtio) readDesc(descTable uint64, idx uint16) (virtqDesc, error) {
	base := descTable + uint64(idx)*16
	addr, err := v.bus.Load(8, base)
	if err != nil {
		return virtqDesc{}, err
	}
	length, err := v.bus.Load(4, base+8)
	if err != nil {
		return virtqDesc{}, err
	}
	flags, err := v.bus.Load(2, base+12)
	if err != nil {
		return virtqDesc{}, err
	}
	next, err := v.bus.Load(2, base+14)
	if err != nil {
		return virtqDesc{}, err
	}
	return virtqDesc{addr: addr, len: uint32(length), flags: uint16(flags), next: uint16(next)}, nil
}

// serviceRequest walks the 3-descriptor virtio-blk request chain rooted
// at head (header, data, status) and returns the byte count written into
// the used-ring entry for it. Only VIRTIO_BLK_T_IN (a sector read) is
// honored; anything else reports VIRTIO_BLK_S_UNSUPP.
func (v *Virtio) serviceRequest(descTable uint64, head uint16) uint64 {
	hdr, err := v.readDesc(descTable, head)
	if err != nil || hdr.flags&descFlagNext == 0 {
		return 0
	}
	reqType, err := v.bus.Load(4, hdr.addr)
	if err != nil {
		return 0
	}
	sector, err := v.bus.Load(8, hdr.addr+8)
	if err != nil {
		return 0
	}

	data, err := v.readDesc(descTable, hdr.next)
	if err != nil || data.flags&descFlagNext == 0 {
		return 0
	}

	status, err := v.readDesc(descTable, data.next)
	if err != nil {
		return 0
	}

	if reqType != virtioBlkTypeIn {
		_ = v.bus.Store(1, status.addr, virtioBlkStatusUnsupp)
		return 1
	}

	sec := v.ReadSector(sector)
	n := uint32(len(sec))
	if data.len < n {
		n = data.len
	}
	for i := uint32(0); i < n; i++ {
		if err := v.bus.Store(1, data.addr+uint64(i), uint64(sec[i])); err != nil {
			return 0
		}
	}
	_ = v.bus.Store(1, status.addr, virtioBlkStatusOK)
	return uint64(n) + 1
}
