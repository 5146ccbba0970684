package bulb

type bulbMap map[string]*bulb

func (bm bulbMap) Get(id string) *bulb {
	b, ok := bm[id]
	if !ok {
		return nil
	}

	return b
}

func (bm bulbMap) Set(id string, b *bulb) {
	bm[id] = b
}

func (bm bulbMap) Has(id string) bool {
	_, exists := bm[id]
	return exists
}
