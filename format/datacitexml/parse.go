package datacitexml

import (
	"errors"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/format/datacite"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Parse reads DataCite XML and returns hub records.
// Handles both bare <resource> elements and OAI-PMH wrapped responses.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, format.Malformed(f.Name(), opts, err)
	}
	if doc.Root() == nil {
		return nil, format.Malformed(f.Name(), opts, errors.New("no root element"))
	}

	resources := doc.FindElements("//resource")
	if len(resources) == 0 {
		return nil, format.Malformed(f.Name(), opts, errors.New("no DataCite resource elements found in input"))
	}

	var records []*hub.Metadata
	for _, res := range resources {
		m, err := datacite.Read(Attributes(res), opts)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}

// Attributes decodes a <resource> element into the attribute shape of the
// DataCite REST API.
func Attributes(res *etree.Element) value.Value {
	attrs := map[string]any{
		"doi":             text(res, "identifier"),
		"publisher":       publisher(res.SelectElement("publisher")),
		"publicationYear": text(res, "publicationYear"),
		"language":        text(res, "language"),
		"version":         text(res, "version"),
		"sizes":           texts(res, "sizes/size"),
		"formats":         texts(res, "formats/format"),
	}
	if id := res.SelectElement("identifier"); id != nil && !strings.EqualFold(attr(id, "identifierType"), "DOI") {
		attrs["doi"] = nil
		attrs["identifiers"] = []any{map[string]any{"identifier": id.Text(), "identifierType": attr(id, "identifierType")}}
	}

	if rt := res.SelectElement("resourceType"); rt != nil {
		attrs["types"] = map[string]any{
			"resourceTypeGeneral": attr(rt, "resourceTypeGeneral"),
			"resourceType":        strings.TrimSpace(rt.Text()),
		}
	}

	attrs["creators"] = each(res.FindElements("creators/creator"), func(e *etree.Element) any {
		return person(e, "creatorName")
	})
	attrs["contributors"] = each(res.FindElements("contributors/contributor"), func(e *etree.Element) any {
		p := person(e, "contributorName")
		p["contributorType"] = attr(e, "contributorType")
		return p
	})

	attrs["titles"] = each(res.FindElements("titles/title"), func(e *etree.Element) any {
		return map[string]any{
			"title":     strings.TrimSpace(e.Text()),
			"titleType": attr(e, "titleType"),
			"lang":      attr(e, "xml:lang"),
		}
	})
	attrs["subjects"] = each(res.FindElements("subjects/subject"), func(e *etree.Element) any {
		return map[string]any{
			"subject":       strings.TrimSpace(e.Text()),
			"subjectScheme": attr(e, "subjectScheme"),
		}
	})
	attrs["dates"] = each(res.FindElements("dates/date"), func(e *etree.Element) any {
		return map[string]any{
			"date":     strings.TrimSpace(e.Text()),
			"dateType": attr(e, "dateType"),
		}
	})
	attrs["alternateIdentifiers"] = each(res.FindElements("alternateIdentifiers/alternateIdentifier"), func(e *etree.Element) any {
		return map[string]any{
			"alternateIdentifier":     strings.TrimSpace(e.Text()),
			"alternateIdentifierType": attr(e, "alternateIdentifierType"),
		}
	})
	attrs["relatedIdentifiers"] = each(res.FindElements("relatedIdentifiers/relatedIdentifier"), func(e *etree.Element) any {
		return map[string]any{
			"relatedIdentifier":     strings.TrimSpace(e.Text()),
			"relatedIdentifierType": attr(e, "relatedIdentifierType"),
			"relationType":          attr(e, "relationType"),
		}
	})
	attrs["rightsList"] = each(res.FindElements("rightsList/rights"), func(e *etree.Element) any {
		return map[string]any{
			"rights":           strings.TrimSpace(e.Text()),
			"rightsUri":        attr(e, "rightsURI"),
			"rightsIdentifier": attr(e, "rightsIdentifier"),
		}
	})
	attrs["descriptions"] = each(res.FindElements("descriptions/description"), func(e *etree.Element) any {
		return map[string]any{
			"description":     innerXML(e),
			"descriptionType": attr(e, "descriptionType"),
			"lang":            attr(e, "xml:lang"),
		}
	})
	attrs["fundingReferences"] = each(res.FindElements("fundingReferences/fundingReference"), func(e *etree.Element) any {
		fr := map[string]any{
			"funderName":  text(e, "funderName"),
			"awardNumber": text(e, "awardNumber"),
			"awardTitle":  text(e, "awardTitle"),
		}
		if id := e.SelectElement("funderIdentifier"); id != nil {
			fr["funderIdentifier"] = strings.TrimSpace(id.Text())
			fr["funderIdentifierType"] = attr(id, "funderIdentifierType")
		}
		if award := e.SelectElement("awardNumber"); award != nil {
			fr["awardUri"] = attr(award, "awardURI")
		}
		return fr
	})
	attrs["geoLocations"] = each(res.FindElements("geoLocations/geoLocation"), func(e *etree.Element) any {
		return map[string]any{"geoLocationPlace": text(e, "geoLocationPlace")}
	})
	attrs["relatedItems"] = each(res.FindElements("relatedItems/relatedItem"), func(e *etree.Element) any {
		item := map[string]any{
			"relationType":    attr(e, "relationType"),
			"relatedItemType": attr(e, "relatedItemType"),
			"titles":          []any{map[string]any{"title": text(e, "titles/title")}},
			"volume":          text(e, "volume"),
			"issue":           text(e, "issue"),
			"firstPage":       text(e, "firstPage"),
			"lastPage":        text(e, "lastPage"),
		}
		if id := e.SelectElement("relatedItemIdentifier"); id != nil {
			item["relatedItemIdentifier"] = map[string]any{
				"relatedItemIdentifier":     strings.TrimSpace(id.Text()),
				"relatedItemIdentifierType": attr(id, "relatedItemIdentifierType"),
			}
		}
		return item
	})

	return value.Of(attrs)
}

// person decodes a creator or contributor. Kernel 3 allows a single
// nameIdentifier and bare affiliation strings; both shapes are covered.
func person(e *etree.Element, nameTag string) map[string]any {
	p := map[string]any{
		"givenName":  text(e, "givenName"),
		"familyName": text(e, "familyName"),
	}
	if name := e.SelectElement(nameTag); name != nil {
		p["name"] = strings.TrimSpace(name.Text())
		p["nameType"] = attr(name, "nameType")
	}
	p["nameIdentifiers"] = each(e.SelectElements("nameIdentifier"), func(ni *etree.Element) any {
		return map[string]any{
			"nameIdentifier":       strings.TrimSpace(ni.Text()),
			"nameIdentifierScheme": attr(ni, "nameIdentifierScheme"),
			"schemeUri":            attr(ni, "schemeURI"),
		}
	})
	p["affiliation"] = each(e.SelectElements("affiliation"), func(a *etree.Element) any {
		return map[string]any{
			"name":                        strings.TrimSpace(a.Text()),
			"affiliationIdentifier":       attr(a, "affiliationIdentifier"),
			"affiliationIdentifierScheme": attr(a, "affiliationIdentifierScheme"),
			"schemeUri":                   attr(a, "schemeURI"),
		}
	})
	return p
}

func publisher(e *etree.Element) any {
	if e == nil {
		return nil
	}
	if id := attr(e, "publisherIdentifier"); id != "" {
		return map[string]any{
			"name":                      strings.TrimSpace(e.Text()),
			"publisherIdentifier":       id,
			"publisherIdentifierScheme": attr(e, "publisherIdentifierScheme"),
			"schemeUri":                 attr(e, "schemeURI"),
		}
	}
	return strings.TrimSpace(e.Text())
}

func each(elements []*etree.Element, fn func(*etree.Element) any) []any {
	out := make([]any, 0, len(elements))
	for _, e := range elements {
		out = append(out, fn(e))
	}
	return out
}

func attr(e *etree.Element, key string) string {
	return strings.TrimSpace(e.SelectAttrValue(key, ""))
}

func text(e *etree.Element, path string) string {
	if c := e.FindElement(path); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func texts(e *etree.Element, path string) []any {
	var out []any
	for _, c := range e.FindElements(path) {
		if s := strings.TrimSpace(c.Text()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// innerXML keeps inline markup such as <br/> for the description
// sanitizer.
func innerXML(e *etree.Element) string {
	var sb strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			doc := etree.NewDocument()
			doc.SetRoot(t.Copy())
			s, err := doc.WriteToString()
			if err == nil {
				sb.WriteString(s)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
