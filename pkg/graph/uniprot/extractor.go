// Package uniprot extracts a directed attributed graph from a
// UniProt-schema XML document. Each entry element becomes a Protein node
// rooting a subtree of full name, gene, organism, reference/author and
// feature nodes.
package uniprot

import (
	"time"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/graphomics/uniprot-kg/pkg/graph"
	"github.com/graphomics/uniprot-kg/pkg/graph/metrics"
)

// Extractor turns one parsed XML document into a graph. An Extractor is
// cheap to create and must not be shared between concurrent parses.
type Extractor struct {
	logger *logrus.Logger
}

// NewExtractor creates an extractor logging to the given logger.
func NewExtractor(logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Extractor{logger: logger}
}

// ParseFile reads the XML document at path and extracts its graph.
func (e *Extractor) ParseFile(path string) (*graph.Graph, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrapf(err, "uniprot: reading %s", path)
	}
	return e.Parse(doc)
}

// ParseString extracts the graph from an XML document held in memory.
func (e *Extractor) ParseString(xml string) (*graph.Graph, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, errors.Wrap(err, "uniprot: reading document")
	}
	return e.Parse(doc)
}

// Parse walks the document and returns the union of every entry's
// subtree as one graph. A missing accession or a malformed reference
// aborts the whole parse; the partially built graph must be discarded.
func (e *Extractor) Parse(doc *etree.Document) (*graph.Graph, error) {
	root := doc.Root()
	if root == nil {
		return nil, errors.New("uniprot: document has no root element")
	}

	start := time.Now()
	g := graph.NewGraph()

	entries := findAll(root, "entry")
	for i, entry := range entries {
		if err := e.parseEntry(g, entry); err != nil {
			return nil, errors.Wrapf(err, "uniprot: entry %d", i)
		}
		metrics.EntriesParsed.Inc()
	}
	metrics.ParseDuration.Observe(time.Since(start).Seconds())

	e.logger.WithFields(logrus.Fields{
		"entries": len(entries),
		"nodes":   g.NodeCount(),
		"edges":   g.EdgeCount(),
	}).Info("Extracted UniProt graph")

	return g, nil
}

func (e *Extractor) parseEntry(g *graph.Graph, entry *etree.Element) error {
	accession, err := parseAccession(entry)
	if err != nil {
		metrics.ParseErrors.WithLabelValues("missing_accession").Inc()
		return err
	}

	protein := e.newNode(g, graph.KindProtein, graph.Property{Key: "id", Value: accession})
	e.logger.WithField("accession", accession).Debug("Parsing entry")

	e.parseFullName(g, entry, protein)
	e.parseGeneNames(g, entry, protein)
	e.parseOrganism(g, entry, protein)
	if err := e.parseReferences(g, entry, protein); err != nil {
		metrics.ParseErrors.WithLabelValues("malformed_reference").Inc()
		return errors.Wrapf(err, "protein %s", accession)
	}
	e.parseFeatures(g, entry, protein)

	return nil
}

// parseAccession returns the text of the first accession element found
// anywhere under the entry.
func parseAccession(entry *etree.Element) (string, error) {
	accession := findFirst(entry, "accession")
	if accession == nil {
		return "", ErrMissingAccession
	}
	return accession.Text(), nil
}

func (e *Extractor) parseFullName(g *graph.Graph, entry *etree.Element, protein *graph.Node) {
	fullName := findFirstPath(entry, "protein", "recommendedName", "fullName")
	if fullName == nil {
		return
	}
	n := e.newNode(g, graph.KindFullName, graph.Property{Key: "name", Value: fullName.Text()})
	e.addEdge(g, protein.ID, n.ID, graph.RelHasFullName)
}

func (e *Extractor) parseGeneNames(g *graph.Graph, entry *etree.Element, protein *graph.Node) {
	var primaryDone bool
	for _, name := range findAllPath(entry, "gene", "name") {
		switch name.SelectAttrValue("type", "") {
		case "primary":
			if primaryDone {
				continue
			}
			primaryDone = true
			n := e.newNode(g, graph.KindGene, graph.Property{Key: "name", Value: name.Text()})
			e.addEdge(g, protein.ID, n.ID, graph.RelFromGene,
				graph.Property{Key: "status", Value: "primary"})
		case "synonym":
			n := e.newNode(g, graph.KindGene, graph.Property{Key: "name", Value: name.Text()})
			e.addEdge(g, protein.ID, n.ID, graph.RelFromGene,
				graph.Property{Key: "status", Value: "synonym"})
		}
	}
}

// parseOrganism emits an Organism node only when both the scientific name
// and the NCBI Taxonomy reference are present. A partial organism yields
// no node at all.
func (e *Extractor) parseOrganism(g *graph.Graph, entry *etree.Element, protein *graph.Node) {
	var scientific, taxonomy *etree.Element
	for _, name := range findAllPath(entry, "organism", "name") {
		if name.SelectAttrValue("type", "") == "scientific" {
			scientific = name
			break
		}
	}
	for _, ref := range findAllPath(entry, "organism", "dbReference") {
		if ref.SelectAttrValue("type", "") == "NCBI Taxonomy" {
			taxonomy = ref
			break
		}
	}
	if scientific == nil || taxonomy == nil {
		return
	}
	n := e.newNode(g, graph.KindOrganism,
		graph.Property{Key: "name", Value: scientific.Text()},
		graph.Property{Key: "taxonomy_id", Value: taxonomy.SelectAttrValue("id", "")},
	)
	e.addEdge(g, protein.ID, n.ID, graph.RelInOrganism)
}

func (e *Extractor) parseReferences(g *graph.Graph, entry *etree.Element, protein *graph.Node) error {
	for i, ref := range findAll(entry, "reference") {
		citation := findFirst(ref, "citation")
		authorList := findFirst(ref, "authorList")
		if citation == nil || authorList == nil {
			return errors.Wrapf(ErrMalformedReference, "reference %d", i)
		}

		refNode := e.newNode(g, graph.KindReference, attrProps(citation)...)
		e.addEdge(g, protein.ID, refNode.ID, graph.RelHasReference)

		for _, author := range authorList.ChildElements() {
			authorNode := e.newNode(g, graph.KindAuthor,
				graph.Property{Key: "name", Value: author.SelectAttrValue("name", "")})
			e.addEdge(g, refNode.ID, authorNode.ID, graph.RelHasAuthor)
		}
	}
	return nil
}

func (e *Extractor) parseFeatures(g *graph.Graph, entry *etree.Element, protein *graph.Node) {
	for _, feature := range findAll(entry, "feature") {
		n := e.newNode(g, graph.KindFeature, attrProps(feature)...)
		e.addEdge(g, protein.ID, n.ID, graph.RelHasFeature)
	}
}

func (e *Extractor) newNode(g *graph.Graph, kind graph.Kind, props ...graph.Property) *graph.Node {
	n := g.NewNode(kind, props...)
	metrics.GraphNodeCount.WithLabelValues(string(kind)).Inc()
	return n
}

// addEdge links two nodes the extractor just created; endpoints always
// exist, so a failure here is a programming error.
func (e *Extractor) addEdge(g *graph.Graph, source, target int, rel string, props ...graph.Property) {
	if _, err := g.AddEdge(source, target, rel, props...); err != nil {
		e.logger.WithError(err).Panic("extractor created an edge with unknown endpoints")
	}
	metrics.GraphEdgeCount.WithLabelValues(rel).Inc()
}
