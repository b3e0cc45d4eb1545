package reducers

// fresh is embedded by Reducers whose state is built only once they run
type fresh struct{}

// GobEncode serializes nothing
func (fresh) GobEncode() ([]byte, error) {
	return []byte{}, nil
}

// GobDecode deserializes nothing
func (*fresh) GobDecode([]byte) error {
	return nil
}
