package model

// ContentType identifies one of the user-generated content kinds tracked
// by the platform.
type ContentType string

const (
	ContentNote  ContentType = "note"
	ContentBlog  ContentType = "blog"
	ContentDoubt ContentType = "doubt"
	ContentForum ContentType = "forum"
)

// ContentTypes lists every content type in snapshot collection order.
var ContentTypes = []ContentType{
	ContentNote,
	ContentBlog,
	ContentDoubt,
	ContentForum,
}

// ParseContentType maps user input such as "notes" or "Blog" to a
// ContentType. The boolean is false for unknown input.
func ParseContentType(s string) (ContentType, bool) {
	switch s {
	case "note", "notes", "Note", "Notes":
		return ContentNote, true
	case "blog", "blogs", "Blog", "Blogs":
		return ContentBlog, true
	case "doubt", "doubts", "Doubt", "Doubts":
		return ContentDoubt, true
	case "forum", "forums", "Forum", "Forums":
		return ContentForum, true
	default:
		return "", false
	}
}

// Record is the common view over the four content kinds.
type Record interface {
	RecordID() string
	RecordType() ContentType
	RecordTitle() string
	RecordCreatedAt() string
	RecordTags() TagField
	RecordAuthor() NameRef
	RecordSubject() NameRef
}

// Note is a shared set of study notes.
type Note struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Subject     NameRef  `json:"subject"`
	Author      NameRef  `json:"uploadedBy"`
	Tags        TagField `json:"tags"`
	Likes       IDList   `json:"likes,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

// Blog is a long-form post.
type Blog struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	Author    NameRef  `json:"author"`
	Tags      TagField `json:"tags"`
	Likes     IDList   `json:"likes,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

// Doubt is a question posted for peers to answer.
type Doubt struct {
	ID          string   `json:"_id"`
	Question    string   `json:"question"`
	Description string   `json:"description,omitempty"`
	Subject     NameRef  `json:"subject"`
	Author      NameRef  `json:"askedBy"`
	Tags        TagField `json:"tags"`
	Upvotes     IDList   `json:"upvotes,omitempty"`
	IsResolved  Truthy   `json:"isResolved,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

// Resolved reports whether the doubt has been marked resolved. An absent
// or falsy flag counts as unresolved.
func (d Doubt) Resolved() bool {
	return bool(d.IsResolved)
}

// Forum is a discussion space.
type Forum struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Author      NameRef  `json:"createdBy"`
	Tags        TagField `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
}

// Note implements Record.

func (n Note) RecordID() string         { return n.ID }
func (n Note) RecordType() ContentType  { return ContentNote }
func (n Note) RecordTitle() string      { return n.Title }
func (n Note) RecordCreatedAt() string  { return n.CreatedAt }
func (n Note) RecordTags() TagField     { return n.Tags }
func (n Note) RecordAuthor() NameRef    { return n.Author }
func (n Note) RecordSubject() NameRef   { return n.Subject }

// Blog implements Record.

func (b Blog) RecordID() string         { return b.ID }
func (b Blog) RecordType() ContentType  { return ContentBlog }
func (b Blog) RecordTitle() string      { return b.Title }
func (b Blog) RecordCreatedAt() string  { return b.CreatedAt }
func (b Blog) RecordTags() TagField     { return b.Tags }
func (b Blog) RecordAuthor() NameRef    { return b.Author }
func (b Blog) RecordSubject() NameRef   { return NameRef{} }

// Doubt implements Record.

func (d Doubt) RecordID() string        { return d.ID }
func (d Doubt) RecordType() ContentType { return ContentDoubt }
func (d Doubt) RecordTitle() string     { return d.Question }
func (d Doubt) RecordCreatedAt() string { return d.CreatedAt }
func (d Doubt) RecordTags() TagField    { return d.Tags }
func (d Doubt) RecordAuthor() NameRef   { return d.Author }
func (d Doubt) RecordSubject() NameRef  { return d.Subject }

// Forum implements Record.

func (f Forum) RecordID() string        { return f.ID }
func (f Forum) RecordType() ContentType { return ContentForum }
func (f Forum) RecordTitle() string     { return f.Name }
func (f Forum) RecordCreatedAt() string { return f.CreatedAt }
func (f Forum) RecordTags() TagField    { return f.Tags }
func (f Forum) RecordAuthor() NameRef   { return f.Author }
func (f Forum) RecordSubject() NameRef  { return NameRef{} }

// Snapshot is the schema dump returned by the platform: every content
// record grouped by kind.
type Snapshot struct {
	Notes  []Note  `json:"notes"`
	Blogs  []Blog  `json:"blogs"`
	Doubts []Doubt `json:"doubts"`
	Forums []Forum `json:"forums"`
}

// Records flattens the snapshot in collection order: notes, blogs,
// doubts, forums.
func (s Snapshot) Records() []Record {
	out := make([]Record, 0, s.Len())
	for _, n := range s.Notes {
		out = append(out, n)
	}
	for _, b := range s.Blogs {
		out = append(out, b)
	}
	for _, d := range s.Doubts {
		out = append(out, d)
	}
	for _, f := range s.Forums {
		out = append(out, f)
	}
	return out
}

// RecordsOf returns only the records of the given type.
func (s Snapshot) RecordsOf(t ContentType) []Record {
	var out []Record
	for _, r := range s.Records() {
		if r.RecordType() == t {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the total number of records.
func (s Snapshot) Len() int {
	return len(s.Notes) + len(s.Blogs) + len(s.Doubts) + len(s.Forums)
}

// Normalized returns a copy whose missing collections are empty rather
// than nil, so it always encodes as four JSON arrays.
func (s Snapshot) Normalized() Snapshot {
	if s.Notes == nil {
		s.Notes = []Note{}
	}
	if s.Blogs == nil {
		s.Blogs = []Blog{}
	}
	if s.Doubts == nil {
		s.Doubts = []Doubt{}
	}
	if s.Forums == nil {
		s.Forums = []Forum{}
	}
	return s
}

// Find returns the record of type t with the given id.
func (s Snapshot) Find(t ContentType, id string) (Record, bool) {
	for _, r := range s.RecordsOf(t) {
		if r.RecordID() == id {
			return r, true
		}
	}
	return nil, false
}
