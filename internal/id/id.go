package id

import (
	"cmp"
	"fmt"
	"strconv"
)

// Field widths in bits. A UID packs them MSB first: class, authority,
// domain, segment, serial.
const (
	ClassBits     = 8
	AuthorityBits = 8
	DomainBits    = 16
	SegmentBits   = 8
	SerialBits    = 24
)

const (
	serialShift    = 0
	segmentShift   = serialShift + SerialBits
	domainShift    = segmentShift + SegmentBits
	authorityShift = domainShift + DomainBits
	classShift     = authorityShift + AuthorityBits
)

// MaxSerial is the largest serial a UID can carry.
const MaxSerial SerialID = 1<<SerialBits - 1

type (
	ClassID     uint8
	AuthorityID uint8 // 0 = local
	DomainID    uint16
	SegmentID   uint8
	SerialID    uint32
)

// UID is the packed, storable form of an ID.
type UID uint64

// Class identities reserved for known record types. These values are stored
// inside UIDs and must never be renumbered.
const (
	ClassUnknown                   ClassID = 0
	ClassStandardAccountDefinition ClassID = 1
	ClassCustomAccountDefinition   ClassID = 2
)

// ID names a definition or record.
type ID struct {
	Class     ClassID
	Authority AuthorityID
	Domain    DomainID
	Segment   SegmentID
	Serial    SerialID
}

// Zero is the empty, invalid ID.
var Zero ID

// Valid reports whether the ID satisfies the identifier invariants.
func (i ID) Valid() bool {
	return i.Validate() == nil
}

// Validate returns a *FieldNotSetError naming the first missing field.
func (i ID) Validate() error {
	switch {
	case i.Class == ClassUnknown:
		return &FieldNotSetError{Type: "ID", Field: "class"}
	case i.Serial == 0:
		return &FieldNotSetError{Type: "ID", Field: "serial"}
	case i.Authority != 0 && i.Domain == 0:
		return &FieldNotSetError{Type: "ID", Field: "domain"}
	}
	return nil
}

// IsZero reports whether every field is zero.
func (i ID) IsZero() bool {
	return i == Zero
}

// Pack concatenates the fields into a UID.
func (i ID) Pack() (UID, error) {
	if i.Serial > MaxSerial {
		return 0, fmt.Errorf("packing serial %d: %w (max %d)", i.Serial, ErrFieldOverflow, MaxSerial)
	}
	return UID(uint64(i.Class)<<classShift |
		uint64(i.Authority)<<authorityShift |
		uint64(i.Domain)<<domainShift |
		uint64(i.Segment)<<segmentShift |
		uint64(i.Serial)<<serialShift), nil
}

// Unpack splits a UID back into its fields.
func Unpack(u UID) ID {
	v := uint64(u)
	return ID{
		Class:     ClassID(v >> classShift),
		Authority: AuthorityID(v >> authorityShift),
		Domain:    DomainID(v >> domainShift),
		Segment:   SegmentID(v >> segmentShift),
		Serial:    SerialID(v>>serialShift) & MaxSerial,
	}
}

// Compare orders IDs the same way their packed UIDs order.
func Compare(a, b ID) int {
	if c := cmp.Compare(a.Class, b.Class); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Authority, b.Authority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Domain, b.Domain); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Segment, b.Segment); c != 0 {
		return c
	}
	return cmp.Compare(a.Serial, b.Serial)
}

// String renders the ID as "class.authority.domain.segment.serial".
func (i ID) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d", i.Class, i.Authority, i.Domain, i.Segment, i.Serial)
}

// String renders the UID as 16 hex digits.
func (u UID) String() string {
	return fmt.Sprintf("%016x", uint64(u))
}

// ParseUID parses the hex form produced by UID.String.
func ParseUID(s string) (UID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid UID %q: %w", s, err)
	}
	return UID(v), nil
}
