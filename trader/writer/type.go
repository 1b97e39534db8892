package writer

//
// Type is an enum that represents a type of data point to be written out.
//
type Type int

const (
	Balance Type = iota
	OrderVolume
)

func (o Type) String() string {
	return [...]string{"Balance", "OrderVolume"}[o]
}
