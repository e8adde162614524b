package catalog

import "accredo/api/internal/compliance"

// Authored explanation and linked-resource bundles, keyed by element
// code. Elements missing from this table get the placeholder bundle.
var resourceBundles = map[string]compliance.ResourceBundle{
	"AAC.1.a": {
		Explanation: "अस्पताल द्वारा प्रदान की जाने वाली स्वास्थ्य सेवाओं को परिभाषित और प्रदर्शित किया जाना चाहिए। Scope of services must be defined in writing, displayed at entry points, and provided uniformly in every unit.",
		Links: []compliance.ResourceLink{
			{Title: "Scope of services board template", URL: "https://resources.accredo.example/aac/scope-board"},
			{Title: "Uniform care audit checklist", URL: "https://resources.accredo.example/aac/uniform-care-audit"},
		},
	},
	"AAC.2.a": {
		Explanation: "पंजीकरण और भर्ती की प्रलेखित प्रक्रिया आवश्यक है। The registration and admission SOP must cover OPD, IPD and emergency flows, and define what happens when no bed is available.",
		Links: []compliance.ResourceLink{
			{Title: "Admission process flowchart", URL: "https://resources.accredo.example/aac/admission-flow"},
		},
	},
	"COP.2.a": {
		Explanation: "सीपीआर की घटनाओं का अभिलेखन और विश्लेषण किया जाना चाहिए। Every resuscitation event needs a completed code-blue form, periodic analysis, and documented corrective actions.",
		Links: []compliance.ResourceLink{
			{Title: "Code blue event form", URL: "https://resources.accredo.example/cop/code-blue-form"},
			{Title: "CPR audit methodology", URL: "https://resources.accredo.example/cop/cpr-audit"},
		},
	},
	"MOM.1.a": {
		Explanation: "फार्मेसी सेवाएँ प्रलेखित नीति द्वारा निर्देशित होनी चाहिए। The pharmacy manual and hospital formulary must exist, and the pharmaco-therapeutic committee must review the formulary on schedule.",
		Links: []compliance.ResourceLink{
			{Title: "Formulary review minutes template", URL: "https://resources.accredo.example/mom/formulary-review"},
		},
	},
	"HIC.1.b": {
		Explanation: "हाथ की स्वच्छता की सुविधाएँ देखभाल के हर स्थान पर उपलब्ध होनी चाहिए। Alcohol rub at every point of care, WHO five-moments posters, and monthly compliance audits reported to the HIC committee.",
		Links: []compliance.ResourceLink{
			{Title: "WHO hand hygiene observation form", URL: "https://resources.accredo.example/hic/hand-hygiene-form"},
		},
	},
	"CQI.1.a": {
		Explanation: "संरचित गुणवत्ता सुधार कार्यक्रम आवश्यक है। The quality manual must name the indicators, their owners, collection frequency, and the review forum for each.",
		Links: []compliance.ResourceLink{
			{Title: "Indicator dictionary template", URL: "https://resources.accredo.example/cqi/indicator-dictionary"},
		},
	},
}
