package hub

var relationInverses = map[string]string{
	"IsPartOf":            "HasPart",
	"HasPart":             "IsPartOf",
	"IsVersionOf":         "HasVersion",
	"HasVersion":          "IsVersionOf",
	"IsNewVersionOf":      "IsPreviousVersionOf",
	"IsPreviousVersionOf": "IsNewVersionOf",
	"IsReplacedBy":        "Replaces",
	"Replaces":            "IsReplacedBy",
	"IsPreprintOf":        "HasPreprint",
	"HasPreprint":         "IsPreprintOf",
	"IsTranslationOf":     "HasTranslation",
	"HasTranslation":      "IsTranslationOf",
	"IsReviewOf":          "HasReview",
	"HasReview":           "IsReviewOf",
	"IsSupplementTo":      "IsSupplementedBy",
	"IsSupplementedBy":    "IsSupplementTo",
	"References":          "IsReferencedBy",
	"IsReferencedBy":      "References",
	"Cites":               "IsCitedBy",
	"IsCitedBy":           "Cites",
	"IsDerivedFrom":       "IsSourceOf",
	"IsSourceOf":          "IsDerivedFrom",
	"Documents":           "IsDocumentedBy",
	"IsDocumentedBy":      "Documents",
	"Describes":           "IsDescribedBy",
	"IsDescribedBy":       "Describes",
	"Compiles":            "IsCompiledBy",
	"IsCompiledBy":        "Compiles",
	"Continues":           "IsContinuedBy",
	"IsContinuedBy":       "Continues",
	"IsVariantFormOf":     "IsOriginalFormOf",
	"IsOriginalFormOf":    "IsVariantFormOf",
	"IsIdenticalTo":       "IsIdenticalTo",
	"IsRelatedMaterial":   "HasRelatedMaterial",
	"HasRelatedMaterial":  "IsRelatedMaterial",
	"IsPublishedIn":       "HasPublished",
	"HasPublished":        "IsPublishedIn",
	"IsRequiredBy":        "Requires",
	"Requires":            "IsRequiredBy",
	"IsObsoletedBy":       "Obsoletes",
	"Obsoletes":           "IsObsoletedBy",
	"IsCollectedBy":       "Collects",
	"Collects":            "IsCollectedBy",
	"IsAnnotatedBy":       "Annotates",
	"Annotates":           "IsAnnotatedBy",
	"HasComment":          "IsCommentOn",
	"IsCommentOn":         "HasComment",
	"IsManifestationOf":   "HasManifestation",
	"HasManifestation":    "IsManifestationOf",
	"IsExpressionOf":      "HasExpression",
	"HasExpression":       "IsExpressionOf",
	"IsBasedOn":           "IsBasisFor",
	"IsBasisFor":          "IsBasedOn",
	"IsReplyTo":           "HasReply",
	"HasReply":            "IsReplyTo",
	"IsFundedBy":          "Funds",
	"Funds":               "IsFundedBy",
	"IsTranslatedFrom":    "HasTranslation",
	"IsDataBasisFor":      "IsBasedOnData",
	"IsBasedOnData":       "IsDataBasisFor",
}

// RelationInverse returns the type a relation has when seen from the other
// end, or "" when the vocabulary has no inverse for t.
func RelationInverse(t string) string {
	return relationInverses[t]
}

// Relation types Crossref deposits as intra_work_relation; everything else
// is an inter_work_relation.
var intraWorkRelations = map[string]bool{
	"IsIdenticalTo":       true,
	"IsPreprintOf":        true,
	"HasPreprint":         true,
	"IsTranslationOf":     true,
	"HasTranslation":      true,
	"IsVersionOf":         true,
	"HasVersion":          true,
	"IsNewVersionOf":      true,
	"IsPreviousVersionOf": true,
	"IsReplacedBy":        true,
	"Replaces":            true,
	"IsManifestationOf":   true,
	"HasManifestation":    true,
	"IsExpressionOf":      true,
	"HasExpression":       true,
	"IsVariantFormOf":     true,
	"IsOriginalFormOf":    true,
}

// IsIntraWorkRelation reports whether t links two versions or forms of the
// same work.
func IsIntraWorkRelation(t string) bool {
	return intraWorkRelations[t]
}
