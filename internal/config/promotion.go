package config

// PromotionKind enumerates the two value-slot kinds a Configuration can
// carry under Value: what happens when the value is invoked, and what
// happens when it is awaited (§3: "Value: a map from PromotionKind to
// Configuration, recording what this value does under invocation or
// await").
type PromotionKind int

const (
	Invoke PromotionKind = iota
	Await
)

func (k PromotionKind) String() string {
	switch k {
	case Invoke:
		return "invoke"
	case Await:
		return "await"
	default:
		return "unknown"
	}
}
