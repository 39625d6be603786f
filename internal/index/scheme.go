package index

var (
	bRecord = []byte("record")  // slug -> record JSON
	bSeq    = []byte("seq")     // ordinal key -> slug, content order
	bIdxCat = []byte("idx_cat") // category -> sub-bucket(ordinal key -> slug)
	bRender = []byte("render")  // output path -> render fingerprint
)
