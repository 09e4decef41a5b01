package uniprot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphomics/uniprot-kg/pkg/graph"
)

const fullEntryXML = `<?xml version="1.0" encoding="UTF-8"?>
<uniprot xmlns="http://uniprot.org/uniprot">
  <entry dataset="Swiss-Prot">
    <accession>Q9Y261</accession>
    <accession>O00358</accession>
    <protein>
      <recommendedName>
        <fullName>Hepatocyte nuclear factor 3-beta</fullName>
      </recommendedName>
    </protein>
    <gene>
      <name type="primary">FOXA2</name>
      <name type="synonym">HNF3B</name>
      <name type="synonym">TCF3B</name>
    </gene>
    <organism>
      <name type="scientific">Homo sapiens</name>
      <name type="common">Human</name>
      <dbReference type="NCBI Taxonomy" id="9606"/>
    </organism>
    <reference key="1">
      <citation type="journal article" date="1994" name="Genomics">
        <authorList>
          <person name="Bell G.I."/>
          <person name="Furuta H."/>
          <person name="Le Beau M.M."/>
        </authorList>
      </citation>
    </reference>
    <feature type="chain" description="Hepatocyte nuclear factor 3-beta" id="PRO_0000091799"/>
  </entry>
</uniprot>`

func TestParseFullEntry(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	proteins := g.NodesByKind(graph.KindProtein)
	require.Len(t, proteins, 1)
	protein := proteins[0]

	// First accession wins.
	assert.Equal(t, "id: Q9Y261", protein.Attr())
	assert.Equal(t, 0, g.InDegree(protein.ID))

	// full name + primary gene + 2 synonyms + organism + reference + feature
	assert.Equal(t, 7, g.OutDegree(protein.ID))
	assert.Equal(t, 11, g.NodeCount())
	assert.Equal(t, 10, g.EdgeCount())
}

func TestParseFullName(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	names := g.NodesByKind(graph.KindFullName)
	require.Len(t, names, 1)
	assert.Equal(t, "name: Hepatocyte nuclear factor 3-beta", names[0].Attr())

	in := g.InEdges(names[0].ID)
	require.Len(t, in, 1)
	assert.Equal(t, "HAS_FULL_NAME", in[0].Attr())
}

func TestParseGeneNames(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	genes := g.NodesByKind(graph.KindGene)
	require.Len(t, genes, 3)

	var attrs []string
	for _, gene := range genes {
		in := g.InEdges(gene.ID)
		require.Len(t, in, 1)
		attrs = append(attrs, in[0].Attr())
	}
	assert.ElementsMatch(t, []string{
		"FROM_GENE\nstatus: primary",
		"FROM_GENE\nstatus: synonym",
		"FROM_GENE\nstatus: synonym",
	}, attrs)
}

func TestParseOrganism(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	organisms := g.NodesByKind(graph.KindOrganism)
	require.Len(t, organisms, 1)
	assert.Equal(t, "name: Homo sapiens\ntaxonomy_id: 9606", organisms[0].Attr())

	in := g.InEdges(organisms[0].ID)
	require.Len(t, in, 1)
	assert.Equal(t, "IN_ORGANISM", in[0].Attr())
}

func TestParseReferenceWithAuthors(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	refs := g.NodesByKind(graph.KindReference)
	require.Len(t, refs, 1)
	ref := refs[0]

	// Citation attributes in declaration order.
	assert.Equal(t, "type: journal article\ndate: 1994\nname: Genomics", ref.Attr())

	in := g.InEdges(ref.ID)
	require.Len(t, in, 1)
	assert.Equal(t, "HAS_REFERENCE", in[0].Attr())

	assert.Equal(t, 3, g.OutDegree(ref.ID))
	var names []string
	for _, e := range g.OutEdges(ref.ID) {
		assert.Equal(t, "HAS_AUTHOR", e.Attr())
		names = append(names, g.Node(e.Target).Attr())
	}
	assert.ElementsMatch(t, []string{
		"name: Bell G.I.",
		"name: Furuta H.",
		"name: Le Beau M.M.",
	}, names)
}

func TestParseFeature(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	features := g.NodesByKind(graph.KindFeature)
	require.Len(t, features, 1)
	assert.Equal(t, "type: chain\ndescription: Hepatocyte nuclear factor 3-beta\nid: PRO_0000091799",
		features[0].Attr())

	in := g.InEdges(features[0].ID)
	require.Len(t, in, 1)
	assert.Equal(t, "HAS_FEATURE", in[0].Attr())
}

func TestParseMinimalEntry(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://uniprot.org/uniprot">
  <entry><accession>P12345</accession></entry>
</uniprot>`)
	require.NoError(t, err)

	require.Equal(t, 1, g.NodeCount())
	require.Equal(t, 0, g.EdgeCount())

	protein := g.Nodes()[0]
	assert.Equal(t, graph.KindProtein, protein.Kind)
	assert.Equal(t, "id: P12345", protein.Attr())
	assert.Equal(t, 0, g.OutDegree(protein.ID))
}

func TestParseMultipleEntriesScopedPerEntry(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://uniprot.org/uniprot">
  <entry>
    <accession>P00001</accession>
    <protein><recommendedName><fullName>Alpha</fullName></recommendedName></protein>
  </entry>
  <entry>
    <accession>P00002</accession>
    <protein><recommendedName><fullName>Beta</fullName></recommendedName></protein>
  </entry>
</uniprot>`)
	require.NoError(t, err)

	proteins := g.NodesByKind(graph.KindProtein)
	require.Len(t, proteins, 2)

	// IDs unique across the whole graph.
	seen := make(map[int]bool)
	for _, n := range g.Nodes() {
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}

	// Each protein links to the full name from its own entry.
	for _, protein := range proteins {
		out := g.OutEdges(protein.ID)
		require.Len(t, out, 1)
		name := g.Node(out[0].Target)
		switch protein.Attr() {
		case "id: P00001":
			assert.Equal(t, "name: Alpha", name.Attr())
		case "id: P00002":
			assert.Equal(t, "name: Beta", name.Attr())
		default:
			t.Fatalf("unexpected protein %q", protein.Attr())
		}
	}
}

func TestParsePartialOrganismSkipped(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://uniprot.org/uniprot">
  <entry>
    <accession>P12345</accession>
    <organism><name type="scientific">Homo sapiens</name></organism>
  </entry>
</uniprot>`)
	require.NoError(t, err)

	assert.Empty(t, g.NodesByKind(graph.KindOrganism))
	assert.Equal(t, 1, g.NodeCount())
}

func TestParseMissingAccessionAbortsRun(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://uniprot.org/uniprot">
  <entry><accession>P12345</accession></entry>
  <entry><name>orphan</name></entry>
</uniprot>`)
	require.ErrorIs(t, err, ErrMissingAccession)
	assert.Nil(t, g)
}

func TestParseMalformedReferenceAbortsRun(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://uniprot.org/uniprot">
  <entry>
    <accession>P12345</accession>
    <reference key="1"><citation type="submission"/></reference>
  </entry>
</uniprot>`)
	require.ErrorIs(t, err, ErrMalformedReference)
	assert.Nil(t, g)
}

func TestParseReferenceWithEmptyAuthorList(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://uniprot.org/uniprot">
  <entry>
    <accession>P12345</accession>
    <reference key="1">
      <citation type="submission" date="1998-12"><authorList/></citation>
    </reference>
  </entry>
</uniprot>`)
	require.NoError(t, err)

	refs := g.NodesByKind(graph.KindReference)
	require.Len(t, refs, 1)
	assert.Equal(t, 0, g.OutDegree(refs[0].ID))
	assert.Empty(t, g.NodesByKind(graph.KindAuthor))
}

func TestParseWrongNamespaceYieldsEmptyGraph(t *testing.T) {
	g, err := NewExtractor(nil).ParseString(`<uniprot xmlns="http://example.org/other">
  <entry><accession>P12345</accession></entry>
</uniprot>`)
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestParseIsIdempotent(t *testing.T) {
	first, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)
	second, err := NewExtractor(nil).ParseString(fullEntryXML)
	require.NoError(t, err)

	require.Equal(t, first.NodeCount(), second.NodeCount())
	require.Equal(t, first.EdgeCount(), second.EdgeCount())

	attrsOf := func(g *graph.Graph) []string {
		var out []string
		for _, n := range g.Nodes() {
			out = append(out, string(n.Kind)+"|"+n.Attr())
		}
		for _, e := range g.Edges() {
			out = append(out, e.Attr())
		}
		return out
	}
	assert.ElementsMatch(t, attrsOf(first), attrsOf(second))
}
