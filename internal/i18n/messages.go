package i18n

// Message keys.
const (
	AppTitle = "app.title"

	NavHome      = "nav.home"
	NavReview    = "nav.review"
	NavDashboard = "nav.dashboard"
	NavHistory   = "nav.history"
	NavLanguage  = "nav.language"

	HomeHeading    = "home.heading"
	HomeLead       = "home.lead"
	HomeSingle     = "home.single"
	HomeSingleDesc = "home.single_desc"
	HomeBatch      = "home.batch"
	HomeBatchDesc  = "home.batch_desc"
	HomeStats      = "home.stats"

	ReviewTitle       = "review.title"
	ReviewPlaceholder = "review.placeholder"
	ReviewSubmit      = "review.submit"
	ReviewResult      = "review.result"
	ReviewConfidence  = "review.confidence"
	ReviewLanguage    = "review.language"
	ReviewHint        = "review.hint"

	DashboardTitle       = "dashboard.title"
	DashboardUpload      = "dashboard.upload"
	DashboardUploadHint  = "dashboard.upload_hint"
	DashboardSubmit      = "dashboard.submit"
	DashboardTotal       = "dashboard.total"
	DashboardPositives   = "dashboard.positives"
	DashboardNegatives   = "dashboard.negatives"
	DashboardNeutrals    = "dashboard.neutrals"
	DashboardPie         = "dashboard.pie"
	DashboardBar         = "dashboard.bar"
	DashboardTable       = "dashboard.table"
	DashboardPreviewNote = "dashboard.preview_note"
	DashboardExport      = "dashboard.export"
	DashboardFile        = "dashboard.file"

	ColumnReview     = "column.review"
	ColumnSentiment  = "column.sentiment"
	ColumnConfidence = "column.confidence"
	ColumnDate       = "column.date"
	ColumnKind       = "column.kind"

	HistoryTitle   = "history.title"
	HistoryEmpty   = "history.empty"
	HistoryDelete  = "history.delete"
	HistoryDeleted = "history.deleted"
	HistoryView    = "history.view"
	HistorySingle  = "history.single"
	HistoryBatch   = "history.batch"
	HistoryCounts  = "history.counts"

	ErrReviewRequired    = "error.review_required"
	ErrReviewTooShort    = "error.review_too_short"
	ErrReviewTooLong     = "error.review_too_long"
	ErrFileRequired      = "error.file_required"
	ErrEmptyFile         = "error.empty_file"
	ErrNotCSV            = "error.not_csv"
	ErrFileTooLarge      = "error.file_too_large"
	ErrMissingColumn     = "error.missing_column"
	ErrNoReviews         = "error.no_reviews"
	ErrTooManyRows       = "error.too_many_rows"
	ErrMalformedCSV      = "error.malformed_csv"
	ErrTimeout           = "error.timeout"
	ErrUnavailable       = "error.unavailable"
	ErrPayloadTooLarge   = "error.payload_too_large"
	ErrRejected          = "error.rejected"
	ErrInvalidResponse   = "error.invalid_response"
	ErrNotFound          = "error.not_found"
	ErrInvalidForm       = "error.invalid_form"
	ErrForbidden         = "error.forbidden"
	ErrGeneric           = "error.generic"
	ErrUnsupportedLocale = "error.unsupported_locale"
)

// Sentiment labels are looked up as "sentiment.<LABEL>".
const sentimentPrefix = "sentiment."

// SentimentKey is the message key of a sentiment label.
func SentimentKey(label string) string {
	return sentimentPrefix + label
}

var french = map[string]string{
	AppTitle: "Analyse des Sentiments",

	NavHome:      "Accueil",
	NavReview:    "Avis unique",
	NavDashboard: "Dashboard",
	NavHistory:   "Historique",
	NavLanguage:  "English",

	HomeHeading:    "Analyse des avis clients",
	HomeLead:       "Classez un avis ou un fichier entier en positif, négatif ou neutre.",
	HomeSingle:     "Analyse d'un Avis Unique",
	HomeSingleDesc: "Collez un avis pour obtenir son sentiment et le niveau de confiance.",
	HomeBatch:      "Importer vos données CSV",
	HomeBatchDesc:  "Analysez un fichier d'avis et visualisez la répartition des sentiments.",
	HomeStats:      "%d avis et %d fichiers analysés depuis votre arrivée.",

	ReviewTitle:       "Analyse d'un Avis Unique",
	ReviewPlaceholder: "Entrez un avis client...",
	ReviewSubmit:      "Analyser",
	ReviewResult:      "Résultat",
	ReviewConfidence:  "Confiance : %.1f%%",
	ReviewLanguage:    "Langue détectée : %s",
	ReviewHint:        "Entre %d et %d caractères.",

	DashboardTitle:       "Dashboard Analyse des Avis",
	DashboardUpload:      "Importer vos données CSV",
	DashboardUploadHint:  "Fichier .csv avec une colonne « review », %d Mo maximum.",
	DashboardSubmit:      "Analyser le fichier",
	DashboardTotal:       "Total Avis",
	DashboardPositives:   "Positifs",
	DashboardNegatives:   "Négatifs",
	DashboardNeutrals:    "Neutres",
	DashboardPie:         "Répartition des Sentiments",
	DashboardBar:         "Distribution par Sentiment",
	DashboardTable:       "Avis Analysés",
	DashboardPreviewNote: "Affichage limité aux %d premiers avis sur %d.",
	DashboardExport:      "Télécharger CSV",
	DashboardFile:        "Fichier : %s",

	ColumnReview:     "Avis",
	ColumnSentiment:  "Sentiment",
	ColumnConfidence: "Confiance",
	ColumnDate:       "Date",
	ColumnKind:       "Type",

	HistoryTitle:   "Historique",
	HistoryEmpty:   "Aucune analyse pour le moment.",
	HistoryDelete:  "Supprimer",
	HistoryDeleted: "Analyse supprimée.",
	HistoryView:    "Voir",
	HistorySingle:  "Avis",
	HistoryBatch:   "Fichier CSV",
	HistoryCounts:  "%d avis, %d fichiers",

	SentimentKey("POSITIVE"): "Positif",
	SentimentKey("NEGATIVE"): "Négatif",
	SentimentKey("NEUTRAL"):  "Neutre",

	ErrReviewRequired:    "Veuillez saisir un avis.",
	ErrReviewTooShort:    "L'avis doit contenir au moins %d caractères.",
	ErrReviewTooLong:     "L'avis ne doit pas dépasser %d caractères.",
	ErrFileRequired:      "Veuillez choisir un fichier CSV.",
	ErrEmptyFile:         "Le fichier est vide.",
	ErrNotCSV:            "Seuls les fichiers CSV sont acceptés.",
	ErrFileTooLarge:      "Le fichier dépasse la taille maximale de %d Mo.",
	ErrMissingColumn:     "Le CSV doit avoir une colonne 'review'",
	ErrNoReviews:         "Le fichier ne contient aucun avis.",
	ErrTooManyRows:       "Le fichier contient trop d'avis (maximum %d).",
	ErrMalformedCSV:      "Erreur lors de l'analyse. Vérifiez le format CSV.",
	ErrTimeout:           "Le service d'analyse met trop de temps à répondre. Réessayez plus tard.",
	ErrUnavailable:       "Le service d'analyse est indisponible. Réessayez plus tard.",
	ErrPayloadTooLarge:   "Le fichier est trop volumineux pour le service d'analyse.",
	ErrRejected:          "Le service d'analyse a refusé la requête.",
	ErrInvalidResponse:   "Le service d'analyse a renvoyé une réponse invalide.",
	ErrNotFound:          "Analyse introuvable.",
	ErrInvalidForm:       "Formulaire invalide.",
	ErrForbidden:         "Accès refusé.",
	ErrGeneric:           "Une erreur inattendue s'est produite.",
	ErrUnsupportedLocale: "Langue non prise en charge.",
}

var english = map[string]string{
	AppTitle: "Sentiment Analysis",

	NavHome:      "Home",
	NavReview:    "Single review",
	NavDashboard: "Dashboard",
	NavHistory:   "History",
	NavLanguage:  "Français",

	HomeHeading:    "Customer review analysis",
	HomeLead:       "Classify one review or a whole file as positive, negative or neutral.",
	HomeSingle:     "Single Review Analysis",
	HomeSingleDesc: "Paste a review to get its sentiment and confidence level.",
	HomeBatch:      "Import your CSV data",
	HomeBatchDesc:  "Analyze a file of reviews and see how sentiments are distributed.",
	HomeStats:      "%d reviews and %d files analyzed since you arrived.",

	ReviewTitle:       "Single Review Analysis",
	ReviewPlaceholder: "Enter a customer review...",
	ReviewSubmit:      "Analyze",
	ReviewResult:      "Result",
	ReviewConfidence:  "Confidence: %.1f%%",
	ReviewLanguage:    "Detected language: %s",
	ReviewHint:        "Between %d and %d characters.",

	DashboardTitle:       "Review Analysis Dashboard",
	DashboardUpload:      "Import your CSV data",
	DashboardUploadHint:  "A .csv file with a \"review\" column, %d MB at most.",
	DashboardSubmit:      "Analyze file",
	DashboardTotal:       "Total Reviews",
	DashboardPositives:   "Positive",
	DashboardNegatives:   "Negative",
	DashboardNeutrals:    "Neutral",
	DashboardPie:         "Sentiment Breakdown",
	DashboardBar:         "Distribution by Sentiment",
	DashboardTable:       "Analyzed Reviews",
	DashboardPreviewNote: "Showing the first %d of %d reviews.",
	DashboardExport:      "Download CSV",
	DashboardFile:        "File: %s",

	ColumnReview:     "Review",
	ColumnSentiment:  "Sentiment",
	ColumnConfidence: "Confidence",
	ColumnDate:       "Date",
	ColumnKind:       "Type",

	HistoryTitle:   "History",
	HistoryEmpty:   "No analyses yet.",
	HistoryDelete:  "Delete",
	HistoryDeleted: "Analysis deleted.",
	HistoryView:    "View",
	HistorySingle:  "Review",
	HistoryBatch:   "CSV file",
	HistoryCounts:  "%d reviews, %d files",

	SentimentKey("POSITIVE"): "Positive",
	SentimentKey("NEGATIVE"): "Negative",
	SentimentKey("NEUTRAL"):  "Neutral",

	ErrReviewRequired:    "Please enter a review.",
	ErrReviewTooShort:    "The review must be at least %d characters long.",
	ErrReviewTooLong:     "The review must not exceed %d characters.",
	ErrFileRequired:      "Please choose a CSV file.",
	ErrEmptyFile:         "The file is empty.",
	ErrNotCSV:            "Only CSV files are accepted.",
	ErrFileTooLarge:      "The file exceeds the %d MB limit.",
	ErrMissingColumn:     "The CSV must have a 'review' column",
	ErrNoReviews:         "The file contains no reviews.",
	ErrTooManyRows:       "The file contains too many reviews (at most %d).",
	ErrMalformedCSV:      "Analysis failed. Check the CSV format.",
	ErrTimeout:           "The analysis service took too long to answer. Please try again later.",
	ErrUnavailable:       "The analysis service is unavailable. Please try again later.",
	ErrPayloadTooLarge:   "The file is too large for the analysis service.",
	ErrRejected:          "The analysis service rejected the request.",
	ErrInvalidResponse:   "The analysis service sent an invalid response.",
	ErrNotFound:          "Analysis not found.",
	ErrInvalidForm:       "Invalid form data.",
	ErrForbidden:         "Access denied.",
	ErrGeneric:           "An unexpected error occurred.",
	ErrUnsupportedLocale: "Unsupported language.",
}
