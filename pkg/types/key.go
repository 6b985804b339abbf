package types

// Key is the hash of a registered name.
type Key Hash

// Value is the hash of the payload bound to a Key. The all-zero value is
// the sentinel meaning "registered but unset" (written by a fresh Reveal
// before any KeyValue has set a real payload).
type Value Hash

// Salt is a 32-byte random nonce chosen by the committer of a name.
type Salt Hash

// Commitment is the keyed hash of (Key, Salt); it binds a future Reveal
// without disclosing the name it commits to.
type Commitment Hash

func (k Key) IsZero() bool                    { return Hash(k).IsZero() }
func (k Key) String() string                  { return Hash(k).String() }
func (k Key) Bytes() []byte                   { return Hash(k).Bytes() }
func (k Key) MarshalJSON() ([]byte, error)    { return Hash(k).MarshalJSON() }
func (k *Key) UnmarshalJSON(data []byte) error { return (*Hash)(k).UnmarshalJSON(data) }

// IsZero reports whether this is the "registered but unset" sentinel value.
func (v Value) IsZero() bool                    { return Hash(v).IsZero() }
func (v Value) String() string                  { return Hash(v).String() }
func (v Value) Bytes() []byte                   { return Hash(v).Bytes() }
func (v Value) MarshalJSON() ([]byte, error)    { return Hash(v).MarshalJSON() }
func (v *Value) UnmarshalJSON(data []byte) error { return (*Hash)(v).UnmarshalJSON(data) }

func (s Salt) IsZero() bool                    { return Hash(s).IsZero() }
func (s Salt) String() string                  { return Hash(s).String() }
func (s Salt) Bytes() []byte                   { return Hash(s).Bytes() }
func (s Salt) MarshalJSON() ([]byte, error)    { return Hash(s).MarshalJSON() }
func (s *Salt) UnmarshalJSON(data []byte) error { return (*Hash)(s).UnmarshalJSON(data) }

func (c Commitment) IsZero() bool                    { return Hash(c).IsZero() }
func (c Commitment) String() string                  { return Hash(c).String() }
func (c Commitment) Bytes() []byte                   { return Hash(c).Bytes() }
func (c Commitment) MarshalJSON() ([]byte, error)    { return Hash(c).MarshalJSON() }
func (c *Commitment) UnmarshalJSON(data []byte) error { return (*Hash)(c).UnmarshalJSON(data) }
