package arena

import "unsafe"

func (d *Document) Type(ref Ref) Tag {
	if ref == NullRef {
		return TagNull
	}
	return tagOf(d.nodes[ref].header)
}

func (d *Document) IsNull(ref Ref) bool   { return d.Type(ref) == TagNull }
func (d *Document) IsBool(ref Ref) bool   { t := d.Type(ref); return t == TagTrue || t == TagFalse }
func (d *Document) IsTrue(ref Ref) bool   { return d.Type(ref) == TagTrue }
func (d *Document) IsFalse(ref Ref) bool  { return d.Type(ref) == TagFalse }
func (d *Document) IsInt(ref Ref) bool    { return d.Type(ref) == TagInt }
func (d *Document) IsFloat(ref Ref) bool  { return d.Type(ref) == TagFloat }
func (d *Document) IsNumber(ref Ref) bool { t := d.Type(ref); return t == TagInt || t == TagFloat }
func (d *Document) IsString(ref Ref) bool {
	t := d.Type(ref)
	return t == TagShortString || t == TagLongString
}
func (d *Document) IsArray(ref Ref) bool  { return d.Type(ref) == TagArray }
func (d *Document) IsObject(ref Ref) bool { return d.Type(ref) == TagObject }
func (d *Document) IsContainer(ref Ref) bool {
	t := d.Type(ref)
	return t == TagArray || t == TagObject
}

func (d *Document) Bool(ref Ref) bool { return d.Type(ref) == TagTrue }

// Int returns the node's integer value, converting from float if needed
// (truncating, matching ordinary Go float-to-int conversion semantics).
func (d *Document) Int(ref Ref) int64 {
	n := &d.nodes[ref]
	switch tagOf(n.header) {
	case TagInt:
		return decodeInt60(payload60(n.header))
	case TagFloat:
		return int64(float64frombits(n.slotC))
	default:
		return 0
	}
}

func (d *Document) Uint(ref Ref) uint64 {
	v := d.Int(ref)
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func (d *Document) Float(ref Ref) float64 {
	n := &d.nodes[ref]
	switch tagOf(n.header) {
	case TagFloat:
		return float64frombits(n.slotC)
	case TagInt:
		return float64(decodeInt60(payload60(n.header)))
	default:
		return 0
	}
}

// StrLen returns a string node's length without materializing its bytes.
func (d *Document) StrLen(ref Ref) int {
	n := &d.nodes[ref]
	switch tagOf(n.header) {
	case TagShortString:
		return shortStringLen(n.header)
	case TagLongString:
		return int(payload60(n.header))
	default:
		return 0
	}
}

// Str returns a string node's value. Long strings are returned as a
// zero-copy view into the string arena (grounded on the teacher's
// unsafeString helper in internal/parser/parser.go); short strings are
// decoded into a small owned buffer since they have no backing slice.
func (d *Document) Str(ref Ref) string {
	n := &d.nodes[ref]
	switch tagOf(n.header) {
	case TagShortString:
		var buf [shortStringMaxLen]byte
		return string(decodeShortStringInto(n.header, buf[:0]))
	case TagLongString:
		length := payload60(n.header)
		off := n.slotC
		b := d.strings[off : off+length]
		return unsafeString(b)
	default:
		return ""
	}
}

// unsafeString views b as a string without copying. Safe here because
// the Document's string arena is never mutated in place after a string
// is written (growth always copies into a brand new slice).
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

// Child returns the first child of a container node, or NullRef if it
// has none. For an object, the chain yielded by repeated Next calls is
// the sequence of key nodes; for an array, it is the sequence of element
// nodes.
func (d *Document) Child(ref Ref) Ref {
	return Ref(d.nodes[ref].slotC)
}

// Next returns the sibling following ref in whatever chain it belongs
// to (object key chain or array element chain).
func (d *Document) Next(ref Ref) Ref {
	return Ref(d.nodes[ref].sibling)
}

// Key returns a key node's text; ref must be a node yielded by Child or
// Next on an object.
func (d *Document) Key(ref Ref) string { return d.Str(ref) }

// Value returns the value linked to an object key node.
func (d *Document) Value(ref Ref) Ref { return d.MemberValue(ref) }

// Size returns the number of children of a container node.
func (d *Document) Size(ref Ref) int {
	n := 0
	for c := d.Child(ref); c != NullRef; c = d.Next(c) {
		n++
	}
	return n
}

// ObjectGet performs a linear scan of obj's key chain for key, matching
// json_obj_get's documented O(members) behavior.
func (d *Document) ObjectGet(obj Ref, key string) (Ref, bool) {
	for k := d.Child(obj); k != NullRef; k = d.Next(k) {
		if d.StrLen(k) == len(key) && d.Key(k) == key {
			return d.Value(k), true
		}
	}
	return NullRef, false
}

// ArrayGet performs a linear scan of arr's element chain for index,
// matching the singly-linked array representation's natural access cost.
func (d *Document) ArrayGet(arr Ref, index int) (Ref, bool) {
	i := 0
	for e := d.Child(arr); e != NullRef; e = d.Next(e) {
		if i == index {
			return e, true
		}
		i++
	}
	return NullRef, false
}

// Equals reports whether a (in da) and b (in db) are structurally equal:
// same type, same scalar value (ints and floats compare by numeric
// value, not representation), same string bytes, same array elements in
// order, and same object members irrespective of order.
func Equals(da *Document, a Ref, db *Document, b Ref) bool {
	ta, tb := da.Type(a), db.Type(b)
	if ta != tb {
		// An int and a float with the same numeric value are still
		// considered equal, matching ordinary JSON-value equality.
		if (ta == TagInt || ta == TagFloat) && (tb == TagInt || tb == TagFloat) {
			return da.Float(a) == db.Float(b)
		}
		return false
	}
	switch ta {
	case TagNull:
		return true
	case TagTrue, TagFalse:
		return da.Bool(a) == db.Bool(b)
	case TagInt:
		return da.Int(a) == db.Int(b)
	case TagFloat:
		return da.Float(a) == db.Float(b)
	case TagShortString, TagLongString:
		return da.Str(a) == db.Str(b)
	case TagArray:
		ea, eb := da.Child(a), db.Child(b)
		for {
			if ea == NullRef || eb == NullRef {
				return ea == NullRef && eb == NullRef
			}
			if !Equals(da, ea, db, eb) {
				return false
			}
			ea, eb = da.Next(ea), db.Next(eb)
		}
	case TagObject:
		if da.Size(a) != db.Size(b) {
			return false
		}
		for ka := da.Child(a); ka != NullRef; ka = da.Next(ka) {
			vb, ok := db.ObjectGet(b, da.Key(ka))
			if !ok || !Equals(da, da.Value(ka), db, vb) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
