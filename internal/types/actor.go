package types

const (
  ActorKindUser   = "USER"
  ActorKindVendor = "VENDOR"
)
